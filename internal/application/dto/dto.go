package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor is the authenticated caller, filled in by the transport layer from the
// verified token. A zero Actor is the system itself.
type Actor struct {
	UserID uuid.UUID `json:"-"`
	Roles  []string  `json:"-"`
}

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateDealRequest opens a draft deal. OwnerID defaults to the actor.
type CreateDealRequest struct {
	Actor           Actor           `json:"-"`
	OwnerID         uuid.UUID       `json:"owner_id"`
	Name            string          `json:"name"`
	CustomerName    string          `json:"customer_name"`
	Value           decimal.Decimal `json:"value"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ContractMonths  int             `json:"contract_months"`
}

// GetDealRequest identifies a deal.
type GetDealRequest struct {
	DealID uuid.UUID `json:"deal_id"`
}

// ListDealsRequest filters deals. Empty fields match everything.
type ListDealsRequest struct {
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	Status  string     `json:"status,omitempty"`
	Limit   int        `json:"limit,omitempty"`
}

// CloseDealRequest records the commercial outcome of a resolved deal.
type CloseDealRequest struct {
	Actor  Actor     `json:"-"`
	DealID uuid.UUID `json:"deal_id"`
	Won    bool      `json:"won"`
}

// ScoringAttributeRequest creates or updates an attribute. AttributeID is
// ignored on create.
type ScoringAttributeRequest struct {
	Actor          Actor     `json:"-"`
	AttributeID    uuid.UUID `json:"attribute_id,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Weight         float64   `json:"weight"`
	MinValue       float64   `json:"min_value"`
	MaxValue       float64   `json:"max_value"`
	HigherIsBetter bool      `json:"higher_is_better"`
}

// DeactivateScoringAttributeRequest soft-deletes an attribute.
type DeactivateScoringAttributeRequest struct {
	Actor       Actor     `json:"-"`
	AttributeID uuid.UUID `json:"attribute_id"`
}

// ListScoringAttributesRequest lists attributes.
type ListScoringAttributesRequest struct {
	ActiveOnly bool `json:"active_only"`
}

// SetScoringThresholdRequest replaces the classification cut-offs.
type SetScoringThresholdRequest struct {
	Actor     Actor   `json:"-"`
	GreenMin  float64 `json:"green_min"`
	YellowMin float64 `json:"yellow_min"`
}

// DealSegmentRequest creates or updates a segment. SegmentID is ignored on
// create; a nil MaxDealValue leaves the band unbounded.
type DealSegmentRequest struct {
	Actor              Actor            `json:"-"`
	SegmentID          uuid.UUID        `json:"segment_id,omitempty"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	MinDealValue       decimal.Decimal  `json:"min_deal_value"`
	MaxDealValue       *decimal.Decimal `json:"max_deal_value,omitempty"`
	MinScore           float64          `json:"min_score"`
	MaxScore           float64          `json:"max_score"`
	ApprovalLevel      int              `json:"approval_level"`
	ApprovalSLAHours   int              `json:"approval_sla_hours"`
	TouchModel         string           `json:"touch_model"`
	AutoApproveEnabled bool             `json:"auto_approve_enabled"`
	Priority           int              `json:"priority"`
	Active             bool             `json:"active"`
}

// ListDealSegmentsRequest lists segments.
type ListDealSegmentsRequest struct {
	ActiveOnly bool `json:"active_only"`
}

// RecordScoreRequest scores one attribute of a deal.
type RecordScoreRequest struct {
	Actor       Actor     `json:"-"`
	DealID      uuid.UUID `json:"deal_id"`
	AttributeID uuid.UUID `json:"attribute_id"`
	RawValue    float64   `json:"raw_value"`
}

// DealRequest is any operation that only needs a deal and an actor.
type DealRequest struct {
	Actor  Actor     `json:"-"`
	DealID uuid.UUID `json:"deal_id"`
}

// RequestApprovalRequest opens the approval chain of a scored deal.
type RequestApprovalRequest struct {
	Actor  Actor     `json:"-"`
	DealID uuid.UUID `json:"deal_id"`
	Notes  string    `json:"notes"`
}

// RespondApprovalRequest approves or rejects a pending approval.
type RespondApprovalRequest struct {
	Actor      Actor     `json:"-"`
	ApprovalID uuid.UUID `json:"approval_id"`
	Approved   bool      `json:"approved"`
	Notes      string    `json:"notes"`
}

// EscalateApprovalRequest hands a pending approval up one level.
type EscalateApprovalRequest struct {
	Actor      Actor     `json:"-"`
	ApprovalID uuid.UUID `json:"approval_id"`
	Notes      string    `json:"notes"`
}

// ListPendingApprovalsRequest lists the pending approvals assigned to a user.
// AssigneeID defaults to the actor.
type ListPendingApprovalsRequest struct {
	Actor      Actor     `json:"-"`
	AssigneeID uuid.UUID `json:"assignee_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScoreResponse is one attribute score on a deal.
type ScoreResponse struct {
	DealID          uuid.UUID `json:"deal_id"`
	AttributeID     uuid.UUID `json:"attribute_id"`
	RawValue        float64   `json:"raw_value"`
	NormalizedScore float64   `json:"normalized_score"`
	ScoredBy        uuid.UUID `json:"scored_by"`
	ScoredAt        time.Time `json:"scored_at"`
}

// DealResponse is the external representation of a deal. Classification and
// TotalScore are null while the deal is unscored.
type DealResponse struct {
	ID              uuid.UUID       `json:"id"`
	OwnerID         uuid.UUID       `json:"owner_id"`
	Name            string          `json:"name"`
	CustomerName    string          `json:"customer_name"`
	Value           decimal.Decimal `json:"value"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ContractMonths  int             `json:"contract_months"`
	Status          string          `json:"status"`
	Classification  *string         `json:"classification"`
	TotalScore      *float64        `json:"total_score"`
	AutoApproved    bool            `json:"auto_approved"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Scores          []ScoreResponse `json:"scores,omitempty"`
}

// ListDealsResponse wraps a page of deals.
type ListDealsResponse struct {
	Deals []DealResponse `json:"deals"`
}

// RecordScoreResponse returns the stored score and the rescored deal.
type RecordScoreResponse struct {
	Score ScoreResponse `json:"score"`
	Deal  DealResponse  `json:"deal"`
}

// ScoringAttributeResponse is the external representation of an attribute.
type ScoringAttributeResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Weight         float64   `json:"weight"`
	MinValue       float64   `json:"min_value"`
	MaxValue       float64   `json:"max_value"`
	HigherIsBetter bool      `json:"higher_is_better"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListScoringAttributesResponse wraps attributes.
type ListScoringAttributesResponse struct {
	Attributes []ScoringAttributeResponse `json:"attributes"`
}

// ScoringThresholdResponse is the external representation of the thresholds.
type ScoringThresholdResponse struct {
	GreenMin  float64   `json:"green_min"`
	YellowMin float64   `json:"yellow_min"`
	UpdatedBy uuid.UUID `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DealSegmentResponse is the external representation of a segment.
type DealSegmentResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	MinDealValue       decimal.Decimal  `json:"min_deal_value"`
	MaxDealValue       *decimal.Decimal `json:"max_deal_value"`
	MinScore           float64          `json:"min_score"`
	MaxScore           float64          `json:"max_score"`
	ApprovalLevel      int              `json:"approval_level"`
	ApprovalSLAHours   int              `json:"approval_sla_hours"`
	TouchModel         string           `json:"touch_model"`
	AutoApproveEnabled bool             `json:"auto_approve_enabled"`
	Priority           int              `json:"priority"`
	Active             bool             `json:"active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ListDealSegmentsResponse wraps segments.
type ListDealSegmentsResponse struct {
	Segments []DealSegmentResponse `json:"segments"`
}

// PreviewSegmentResponse reports which segment a deal would route to. Segment
// is nil when none matches.
type PreviewSegmentResponse struct {
	DealID  uuid.UUID            `json:"deal_id"`
	Segment *DealSegmentResponse `json:"segment"`
}

// ApprovalResponse is the external representation of an approval.
type ApprovalResponse struct {
	ID            uuid.UUID  `json:"id"`
	DealID        uuid.UUID  `json:"deal_id"`
	RequesterID   uuid.UUID  `json:"requester_id"`
	AssigneeID    *uuid.UUID `json:"assignee_id"`
	ResponderID   *uuid.UUID `json:"responder_id,omitempty"`
	Status        string     `json:"status"`
	ApprovalLevel int        `json:"approval_level"`
	RequestNotes  string     `json:"request_notes,omitempty"`
	ResponseNotes string     `json:"response_notes,omitempty"`
	RequestedAt   time.Time  `json:"requested_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
}

// ListApprovalsResponse wraps approvals.
type ListApprovalsResponse struct {
	Approvals []ApprovalResponse `json:"approvals"`
}

// AutoRouteResponse reports the outcome of auto-routing.
type AutoRouteResponse struct {
	AutoApproved bool                 `json:"auto_approved"`
	Segment      *DealSegmentResponse `json:"segment"`
	Reason       string               `json:"reason"`
	Deal         DealResponse         `json:"deal"`
}

// NoteResponse is one audit entry.
type NoteResponse struct {
	ID        uuid.UUID      `json:"id"`
	DealID    uuid.UUID      `json:"deal_id"`
	AuthorID  *uuid.UUID     `json:"author_id"`
	NoteType  string         `json:"note_type"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListNotesResponse wraps notes, oldest first.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// DealSummaryResponse carries the JSON snapshot sent to the analysis provider.
type DealSummaryResponse struct {
	DealID  uuid.UUID `json:"deal_id"`
	Summary string    `json:"summary"`
}

// AnalyzeDealResponse carries the provider's reply verbatim.
type AnalyzeDealResponse struct {
	DealID   uuid.UUID `json:"deal_id"`
	Summary  string    `json:"summary"`
	Analysis string    `json:"analysis"`
}
