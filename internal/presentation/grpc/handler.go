package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/usecase"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/auth"
)

// Role gates per method group. Finer capability checks for approval
// decisions and configuration happen in the use cases.
var (
	anyRole   = []string{auth.RoleAdmin, auth.RoleSalesRep, auth.RoleApprover, auth.RoleExecutive, auth.RoleAPIClient}
	approvers = []string{auth.RoleAdmin, auth.RoleApprover, auth.RoleExecutive}
	admins    = []string{auth.RoleAdmin}
)

// actorFromContext checks that the caller has at least one of the given roles
// and returns them as the acting user.
func actorFromContext(ctx context.Context, roles ...string) (dto.Actor, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return dto.Actor{}, status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return dto.Actor{UserID: claims.UserID, Roles: claims.Roles}, nil
		}
	}
	return dto.Actor{}, status.Error(codes.PermissionDenied, "insufficient permissions")
}

// UseCases groups the application services exposed over gRPC.
type UseCases struct {
	CreateDeal       *usecase.CreateDealUseCase
	GetDeal          *usecase.GetDealUseCase
	ListDeals        *usecase.ListDealsUseCase
	CloseDeal        *usecase.CloseDealUseCase
	RecordScore      *usecase.RecordScoreUseCase
	RecomputeScore   *usecase.RecomputeDealScoreUseCase
	Attributes       *usecase.ScoringAttributeUseCase
	Threshold        *usecase.ScoringThresholdUseCase
	Segments         *usecase.DealSegmentUseCase
	RequestApproval  *usecase.RequestApprovalUseCase
	RespondApproval  *usecase.RespondApprovalUseCase
	EscalateApproval *usecase.EscalateApprovalUseCase
	AutoRoute        *usecase.AutoRouteUseCase
	History          *usecase.DealHistoryUseCase
	Analysis         *usecase.DealAnalysisUseCase
}

// Compile-time assertion that DealDeskHandler implements DealDeskServiceServer.
var _ DealDeskServiceServer = (*DealDeskHandler)(nil)

// DealDeskHandler implements the gRPC DealDeskServiceServer interface.
type DealDeskHandler struct {
	uc     UseCases
	logger *slog.Logger
}

// NewDealDeskHandler creates a new gRPC handler.
func NewDealDeskHandler(uc UseCases, logger *slog.Logger) *DealDeskHandler {
	return &DealDeskHandler{uc: uc, logger: logger}
}

// toStatus maps domain error kinds onto gRPC status codes. Unclassified
// errors are logged and hidden behind codes.Internal.
func (h *DealDeskHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, domainerr.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domainerr.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domainerr.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domainerr.ErrConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, domainerr.ErrPreconditionFailed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domainerr.ErrConfiguration):
		return status.Error(codes.FailedPrecondition, "service is not configured, contact an administrator: "+err.Error())
	default:
		h.logger.ErrorContext(ctx, "request failed", slog.String("method", op), slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}

// respond finishes a handler: it maps err or returns a pointer to resp.
func respond[T any](ctx context.Context, h *DealDeskHandler, op string, resp T, err error) (*T, error) {
	if err != nil {
		return nil, h.toStatus(ctx, op, err)
	}
	return &resp, nil
}

// ---------------------------------------------------------------------------
// Deals
// ---------------------------------------------------------------------------

func (h *DealDeskHandler) CreateDeal(ctx context.Context, req *dto.CreateDealRequest) (*dto.DealResponse, error) {
	actor, err := actorFromContext(ctx, anyRole...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.CreateDeal.Execute(ctx, *req)
	return respond(ctx, h, "CreateDeal", resp, err)
}

func (h *DealDeskHandler) GetDeal(ctx context.Context, req *dto.GetDealRequest) (*dto.DealResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.GetDeal.Execute(ctx, *req)
	return respond(ctx, h, "GetDeal", resp, err)
}

func (h *DealDeskHandler) ListDeals(ctx context.Context, req *dto.ListDealsRequest) (*dto.ListDealsResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.ListDeals.Execute(ctx, *req)
	return respond(ctx, h, "ListDeals", resp, err)
}

func (h *DealDeskHandler) CloseDeal(ctx context.Context, req *dto.CloseDealRequest) (*dto.DealResponse, error) {
	actor, err := actorFromContext(ctx, anyRole...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.CloseDeal.Execute(ctx, *req)
	return respond(ctx, h, "CloseDeal", resp, err)
}

// ---------------------------------------------------------------------------
// Scoring
// ---------------------------------------------------------------------------

func (h *DealDeskHandler) RecordScore(ctx context.Context, req *dto.RecordScoreRequest) (*dto.RecordScoreResponse, error) {
	actor, err := actorFromContext(ctx, anyRole...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.RecordScore.Execute(ctx, *req)
	return respond(ctx, h, "RecordScore", resp, err)
}

func (h *DealDeskHandler) RecomputeDealScore(ctx context.Context, req *dto.DealRequest) (*dto.DealResponse, error) {
	actor, err := actorFromContext(ctx, anyRole...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.RecomputeScore.Execute(ctx, *req)
	return respond(ctx, h, "RecomputeDealScore", resp, err)
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

func (h *DealDeskHandler) CreateScoringAttribute(ctx context.Context, req *dto.ScoringAttributeRequest) (*dto.ScoringAttributeResponse, error) {
	actor, err := actorFromContext(ctx, admins...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.Attributes.Create(ctx, *req)
	return respond(ctx, h, "CreateScoringAttribute", resp, err)
}

func (h *DealDeskHandler) UpdateScoringAttribute(ctx context.Context, req *dto.ScoringAttributeRequest) (*dto.ScoringAttributeResponse, error) {
	actor, err := actorFromContext(ctx, admins...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.Attributes.Update(ctx, *req)
	return respond(ctx, h, "UpdateScoringAttribute", resp, err)
}

func (h *DealDeskHandler) DeactivateScoringAttribute(ctx context.Context, req *dto.DeactivateScoringAttributeRequest) (*dto.ScoringAttributeResponse, error) {
	actor, err := actorFromContext(ctx, admins...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.Attributes.Deactivate(ctx, *req)
	return respond(ctx, h, "DeactivateScoringAttribute", resp, err)
}

func (h *DealDeskHandler) ListScoringAttributes(ctx context.Context, req *dto.ListScoringAttributesRequest) (*dto.ListScoringAttributesResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.Attributes.List(ctx, *req)
	return respond(ctx, h, "ListScoringAttributes", resp, err)
}

func (h *DealDeskHandler) GetScoringThreshold(ctx context.Context, _ *Empty) (*dto.ScoringThresholdResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.Threshold.Get(ctx)
	return respond(ctx, h, "GetScoringThreshold", resp, err)
}

func (h *DealDeskHandler) SetScoringThreshold(ctx context.Context, req *dto.SetScoringThresholdRequest) (*dto.ScoringThresholdResponse, error) {
	actor, err := actorFromContext(ctx, admins...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.Threshold.Set(ctx, *req)
	return respond(ctx, h, "SetScoringThreshold", resp, err)
}

func (h *DealDeskHandler) CreateDealSegment(ctx context.Context, req *dto.DealSegmentRequest) (*dto.DealSegmentResponse, error) {
	actor, err := actorFromContext(ctx, admins...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.Segments.Create(ctx, *req)
	return respond(ctx, h, "CreateDealSegment", resp, err)
}

func (h *DealDeskHandler) UpdateDealSegment(ctx context.Context, req *dto.DealSegmentRequest) (*dto.DealSegmentResponse, error) {
	actor, err := actorFromContext(ctx, admins...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.Segments.Update(ctx, *req)
	return respond(ctx, h, "UpdateDealSegment", resp, err)
}

func (h *DealDeskHandler) ListDealSegments(ctx context.Context, req *dto.ListDealSegmentsRequest) (*dto.ListDealSegmentsResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.Segments.List(ctx, *req)
	return respond(ctx, h, "ListDealSegments", resp, err)
}

func (h *DealDeskHandler) PreviewSegment(ctx context.Context, req *dto.GetDealRequest) (*dto.PreviewSegmentResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.Segments.Preview(ctx, *req)
	return respond(ctx, h, "PreviewSegment", resp, err)
}

// ---------------------------------------------------------------------------
// Approvals
// ---------------------------------------------------------------------------

func (h *DealDeskHandler) RequestApproval(ctx context.Context, req *dto.RequestApprovalRequest) (*dto.ApprovalResponse, error) {
	actor, err := actorFromContext(ctx, anyRole...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.RequestApproval.Execute(ctx, *req)
	return respond(ctx, h, "RequestApproval", resp, err)
}

func (h *DealDeskHandler) RespondApproval(ctx context.Context, req *dto.RespondApprovalRequest) (*dto.ApprovalResponse, error) {
	actor, err := actorFromContext(ctx, approvers...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.RespondApproval.Execute(ctx, *req)
	return respond(ctx, h, "RespondApproval", resp, err)
}

func (h *DealDeskHandler) EscalateApproval(ctx context.Context, req *dto.EscalateApprovalRequest) (*dto.ApprovalResponse, error) {
	actor, err := actorFromContext(ctx, approvers...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.EscalateApproval.Execute(ctx, *req)
	return respond(ctx, h, "EscalateApproval", resp, err)
}

func (h *DealDeskHandler) AutoRoute(ctx context.Context, req *dto.DealRequest) (*dto.AutoRouteResponse, error) {
	actor, err := actorFromContext(ctx, anyRole...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.AutoRoute.Execute(ctx, *req)
	return respond(ctx, h, "AutoRoute", resp, err)
}

func (h *DealDeskHandler) ListDealApprovals(ctx context.Context, req *dto.GetDealRequest) (*dto.ListApprovalsResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.History.ListApprovals(ctx, *req)
	return respond(ctx, h, "ListDealApprovals", resp, err)
}

func (h *DealDeskHandler) ListPendingApprovals(ctx context.Context, req *dto.ListPendingApprovalsRequest) (*dto.ListApprovalsResponse, error) {
	actor, err := actorFromContext(ctx, anyRole...)
	if err != nil {
		return nil, err
	}
	req.Actor = actor
	resp, err := h.uc.History.ListPending(ctx, *req)
	return respond(ctx, h, "ListPendingApprovals", resp, err)
}

func (h *DealDeskHandler) ListDealNotes(ctx context.Context, req *dto.GetDealRequest) (*dto.ListNotesResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.History.ListNotes(ctx, *req)
	return respond(ctx, h, "ListDealNotes", resp, err)
}

// ---------------------------------------------------------------------------
// Analysis
// ---------------------------------------------------------------------------

func (h *DealDeskHandler) BuildDealSummary(ctx context.Context, req *dto.GetDealRequest) (*dto.DealSummaryResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.Analysis.BuildSummary(ctx, *req)
	return respond(ctx, h, "BuildDealSummary", resp, err)
}

func (h *DealDeskHandler) AnalyzeDeal(ctx context.Context, req *dto.GetDealRequest) (*dto.AnalyzeDealResponse, error) {
	if _, err := actorFromContext(ctx, anyRole...); err != nil {
		return nil, err
	}
	resp, err := h.uc.Analysis.Analyze(ctx, *req)
	return respond(ctx, h, "AnalyzeDeal", resp, err)
}
