package usecase

import (
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
)

func toDealResponse(d *model.Deal, scores []model.DealScore) dto.DealResponse {
	resp := dto.DealResponse{
		ID:              d.ID(),
		OwnerID:         d.OwnerID(),
		Name:            d.Name(),
		CustomerName:    d.CustomerName(),
		Value:           d.Value(),
		DiscountPercent: d.DiscountPercent(),
		ContractMonths:  d.ContractMonths(),
		Status:          d.Status().String(),
		Classification:  classificationPtr(d.Classification()),
		TotalScore:      d.TotalScore(),
		AutoApproved:    d.AutoApproved(),
		ApprovedAt:      d.ApprovedAt(),
		ClosedAt:        d.ClosedAt(),
		Version:         d.Version(),
		CreatedAt:       d.CreatedAt(),
		UpdatedAt:       d.UpdatedAt(),
	}
	for _, s := range scores {
		resp.Scores = append(resp.Scores, toScoreResponse(s))
	}
	return resp
}

func toScoreResponse(s model.DealScore) dto.ScoreResponse {
	return dto.ScoreResponse{
		DealID:          s.DealID,
		AttributeID:     s.AttributeID,
		RawValue:        s.RawValue,
		NormalizedScore: s.NormalizedScore,
		ScoredBy:        s.ScoredBy,
		ScoredAt:        s.ScoredAt,
	}
}

func toAttributeResponse(a *model.ScoringAttribute) dto.ScoringAttributeResponse {
	return dto.ScoringAttributeResponse{
		ID:             a.ID(),
		Name:           a.Name(),
		Description:    a.Description(),
		Category:       a.Category().String(),
		Weight:         a.Weight(),
		MinValue:       a.MinValue(),
		MaxValue:       a.MaxValue(),
		HigherIsBetter: a.HigherIsBetter(),
		Active:         a.IsActive(),
		CreatedAt:      a.CreatedAt(),
		UpdatedAt:      a.UpdatedAt(),
	}
}

func toThresholdResponse(t model.ScoringThreshold) dto.ScoringThresholdResponse {
	return dto.ScoringThresholdResponse{
		GreenMin:  t.GreenMin,
		YellowMin: t.YellowMin,
		UpdatedBy: t.UpdatedBy,
		UpdatedAt: t.UpdatedAt,
	}
}

func toSegmentResponse(s *model.DealSegment) dto.DealSegmentResponse {
	return dto.DealSegmentResponse{
		ID:                 s.ID(),
		Name:               s.Name(),
		Description:        s.Description(),
		MinDealValue:       s.MinDealValue(),
		MaxDealValue:       s.MaxDealValue(),
		MinScore:           s.MinScore(),
		MaxScore:           s.MaxScore(),
		ApprovalLevel:      s.ApprovalLevel(),
		ApprovalSLAHours:   s.ApprovalSLAHours(),
		TouchModel:         s.TouchModel().String(),
		AutoApproveEnabled: s.AutoApproveEnabled(),
		Priority:           s.Priority(),
		Active:             s.IsActive(),
		CreatedAt:          s.CreatedAt(),
		UpdatedAt:          s.UpdatedAt(),
	}
}

func toSegmentResponsePtr(s *model.DealSegment) *dto.DealSegmentResponse {
	if s == nil {
		return nil
	}
	r := toSegmentResponse(s)
	return &r
}

func toApprovalResponse(a *model.DealApproval) dto.ApprovalResponse {
	return dto.ApprovalResponse{
		ID:            a.ID(),
		DealID:        a.DealID(),
		RequesterID:   a.RequesterID(),
		AssigneeID:    a.AssigneeID(),
		ResponderID:   a.ResponderID(),
		Status:        a.Status().String(),
		ApprovalLevel: a.Level(),
		RequestNotes:  a.RequestNotes(),
		ResponseNotes: a.ResponseNotes(),
		RequestedAt:   a.RequestedAt(),
		RespondedAt:   a.RespondedAt(),
	}
}

func toApprovalResponses(as []*model.DealApproval) []dto.ApprovalResponse {
	out := make([]dto.ApprovalResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toApprovalResponse(a))
	}
	return out
}

func toNoteResponse(n model.DealNote) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        n.ID,
		DealID:    n.DealID,
		AuthorID:  n.AuthorID,
		NoteType:  n.Type.String(),
		Content:   n.Content,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
	}
}
