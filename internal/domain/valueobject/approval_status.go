package valueobject

import "github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"

// ApprovalStatus is the state of one approval-cycle record.
type ApprovalStatus struct {
	value string
}

var (
	ApprovalStatusPending   = ApprovalStatus{value: "pending"}
	ApprovalStatusApproved  = ApprovalStatus{value: "approved"}
	ApprovalStatusRejected  = ApprovalStatus{value: "rejected"}
	ApprovalStatusEscalated = ApprovalStatus{value: "escalated"}
)

// NewApprovalStatus parses a raw approval status string.
func NewApprovalStatus(s string) (ApprovalStatus, error) {
	for _, st := range []ApprovalStatus{
		ApprovalStatusPending, ApprovalStatusApproved,
		ApprovalStatusRejected, ApprovalStatusEscalated,
	} {
		if st.value == s {
			return st, nil
		}
	}
	return ApprovalStatus{}, domainerr.Validationf("invalid approval status: %q", s)
}

// IsPending reports whether the approval still awaits a response.
func (s ApprovalStatus) IsPending() bool { return s.value == ApprovalStatusPending.value }

func (s ApprovalStatus) String() string { return s.value }

func (s ApprovalStatus) IsZero() bool { return s.value == "" }

func (s ApprovalStatus) Equal(other ApprovalStatus) bool { return s.value == other.value }
