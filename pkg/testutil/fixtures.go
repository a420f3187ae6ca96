package testutil

import (
	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestRepID       = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestApproverID  = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestExecutiveID = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	TestAdminID     = uuid.MustParse("00000000-0000-0000-0000-000000000004")
)
