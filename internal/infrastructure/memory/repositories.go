package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/model"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/port"
	"github.com/lexhallenberger/hearth-build-hub-sub001/pkg/events"
)

func byID(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) }

// ---------------------------------------------------------------------------
// Deals
// ---------------------------------------------------------------------------

type dealRepo struct{ run runner }

func (r dealRepo) Create(_ context.Context, d *model.Deal) error {
	return r.run(func(s *state) error {
		if _, ok := s.deals[d.ID()]; ok {
			return domainerr.Conflictf("deal %s already exists", d.ID())
		}
		s.deals[d.ID()] = d.Snapshot()
		return nil
	})
}

func (r dealRepo) Update(_ context.Context, d *model.Deal) error {
	return r.run(func(s *state) error {
		stored, ok := s.deals[d.ID()]
		if !ok {
			return domainerr.NotFoundf("deal %s not found", d.ID())
		}
		if stored.Version != d.Version() {
			return domainerr.Conflictf("deal %s was modified concurrently", d.ID())
		}
		d.BumpVersion()
		s.deals[d.ID()] = d.Snapshot()
		return nil
	})
}

func (r dealRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Deal, error) {
	var out *model.Deal
	err := r.run(func(s *state) error {
		snap, ok := s.deals[id]
		if !ok {
			return domainerr.NotFoundf("deal %s not found", id)
		}
		out = model.ReconstructDeal(snap)
		return nil
	})
	return out, err
}

func (r dealRepo) List(_ context.Context, f port.DealFilter) ([]*model.Deal, error) {
	var snaps []model.DealSnapshot
	err := r.run(func(s *state) error {
		for _, snap := range s.deals {
			if f.OwnerID != nil && snap.OwnerID != *f.OwnerID {
				continue
			}
			if f.Status != nil && !snap.Status.Equal(*f.Status) {
				continue
			}
			snaps = append(snaps, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(snaps, func(a, b model.DealSnapshot) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return byID(a.ID, b.ID)
	})
	if f.Limit > 0 && len(snaps) > f.Limit {
		snaps = snaps[:f.Limit]
	}
	out := make([]*model.Deal, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, model.ReconstructDeal(snap))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Scoring attributes
// ---------------------------------------------------------------------------

type attributeRepo struct{ run runner }

func (r attributeRepo) Create(_ context.Context, a *model.ScoringAttribute) error {
	return r.run(func(s *state) error {
		if _, ok := s.attrs[a.ID()]; ok {
			return domainerr.Conflictf("attribute %s already exists", a.ID())
		}
		s.attrs[a.ID()] = *a
		return nil
	})
}

func (r attributeRepo) Update(_ context.Context, a *model.ScoringAttribute) error {
	return r.run(func(s *state) error {
		if _, ok := s.attrs[a.ID()]; !ok {
			return domainerr.NotFoundf("attribute %s not found", a.ID())
		}
		s.attrs[a.ID()] = *a
		return nil
	})
}

func (r attributeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ScoringAttribute, error) {
	var out *model.ScoringAttribute
	err := r.run(func(s *state) error {
		a, ok := s.attrs[id]
		if !ok {
			return domainerr.NotFoundf("attribute %s not found", id)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r attributeRepo) List(_ context.Context, activeOnly bool) ([]*model.ScoringAttribute, error) {
	var out []*model.ScoringAttribute
	err := r.run(func(s *state) error {
		for _, a := range s.attrs {
			if activeOnly && !a.IsActive() {
				continue
			}
			a := a
			out = append(out, &a)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *model.ScoringAttribute) int {
		if c := cmp.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return byID(a.ID(), b.ID())
	})
	return out, err
}

// ---------------------------------------------------------------------------
// Scores
// ---------------------------------------------------------------------------

type scoreRepo struct{ run runner }

func (r scoreRepo) Upsert(_ context.Context, sc model.DealScore) error {
	return r.run(func(s *state) error {
		s.scores[scoreKey{deal: sc.DealID, attribute: sc.AttributeID}] = sc
		return nil
	})
}

func (r scoreRepo) ListByDeal(_ context.Context, dealID uuid.UUID) ([]model.DealScore, error) {
	var out []model.DealScore
	err := r.run(func(s *state) error {
		for k, sc := range s.scores {
			if k.deal == dealID {
				out = append(out, sc)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.DealScore) int { return byID(a.AttributeID, b.AttributeID) })
	return out, err
}

// ---------------------------------------------------------------------------
// Segments
// ---------------------------------------------------------------------------

type segmentRepo struct{ run runner }

func (r segmentRepo) Create(_ context.Context, seg *model.DealSegment) error {
	return r.run(func(s *state) error {
		if _, ok := s.segments[seg.ID()]; ok {
			return domainerr.Conflictf("segment %s already exists", seg.ID())
		}
		s.segments[seg.ID()] = *seg
		return nil
	})
}

func (r segmentRepo) Update(_ context.Context, seg *model.DealSegment) error {
	return r.run(func(s *state) error {
		if _, ok := s.segments[seg.ID()]; !ok {
			return domainerr.NotFoundf("segment %s not found", seg.ID())
		}
		s.segments[seg.ID()] = *seg
		return nil
	})
}

func (r segmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DealSegment, error) {
	var out *model.DealSegment
	err := r.run(func(s *state) error {
		seg, ok := s.segments[id]
		if !ok {
			return domainerr.NotFoundf("segment %s not found", id)
		}
		out = &seg
		return nil
	})
	return out, err
}

func (r segmentRepo) List(_ context.Context, activeOnly bool) ([]*model.DealSegment, error) {
	var out []*model.DealSegment
	err := r.run(func(s *state) error {
		for _, seg := range s.segments {
			if activeOnly && !seg.IsActive() {
				continue
			}
			seg := seg
			out = append(out, &seg)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *model.DealSegment) int {
		if c := cmp.Compare(a.Priority(), b.Priority()); c != 0 {
			return c
		}
		return byID(a.ID(), b.ID())
	})
	return out, err
}

// ---------------------------------------------------------------------------
// Approvals
// ---------------------------------------------------------------------------

type approvalRepo struct{ run runner }

func (r approvalRepo) Create(_ context.Context, a *model.DealApproval) error {
	return r.run(func(s *state) error {
		if _, ok := s.approvals[a.ID()]; ok {
			return domainerr.Conflictf("approval %s already exists", a.ID())
		}
		if a.Status().IsPending() {
			for _, row := range s.approvals {
				if row.snap.DealID == a.DealID() && row.snap.Status.IsPending() {
					return domainerr.Conflictf("deal %s already has a pending approval", a.DealID())
				}
			}
		}
		s.approvals[a.ID()] = approvalRow{snap: a.Snapshot(), seq: s.next()}
		return nil
	})
}

func (r approvalRepo) Resolve(_ context.Context, a *model.DealApproval) error {
	return r.run(func(s *state) error {
		row, ok := s.approvals[a.ID()]
		if !ok {
			return domainerr.NotFoundf("approval %s not found", a.ID())
		}
		if !row.snap.Status.IsPending() {
			return domainerr.Conflictf("approval %s was already resolved", a.ID())
		}
		row.snap = a.Snapshot()
		s.approvals[a.ID()] = row
		return nil
	})
}

func (r approvalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DealApproval, error) {
	var out *model.DealApproval
	err := r.run(func(s *state) error {
		row, ok := s.approvals[id]
		if !ok {
			return domainerr.NotFoundf("approval %s not found", id)
		}
		out = model.ReconstructDealApproval(row.snap)
		return nil
	})
	return out, err
}

func (r approvalRepo) FindPendingByDeal(_ context.Context, dealID uuid.UUID) (*model.DealApproval, error) {
	var out *model.DealApproval
	err := r.run(func(s *state) error {
		for _, row := range s.approvals {
			if row.snap.DealID == dealID && row.snap.Status.IsPending() {
				out = model.ReconstructDealApproval(row.snap)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r approvalRepo) ListByDeal(_ context.Context, dealID uuid.UUID) ([]*model.DealApproval, error) {
	return r.list(func(snap model.DealApprovalSnapshot) bool { return snap.DealID == dealID })
}

func (r approvalRepo) ListPendingByAssignee(_ context.Context, assigneeID uuid.UUID) ([]*model.DealApproval, error) {
	return r.list(func(snap model.DealApprovalSnapshot) bool {
		return snap.Status.IsPending() && snap.AssigneeID != nil && *snap.AssigneeID == assigneeID
	})
}

func (r approvalRepo) list(keep func(model.DealApprovalSnapshot) bool) ([]*model.DealApproval, error) {
	var rows []approvalRow
	err := r.run(func(s *state) error {
		for _, row := range s.approvals {
			if keep(row.snap) {
				rows = append(rows, row)
			}
		}
		return nil
	})
	slices.SortFunc(rows, func(a, b approvalRow) int { return cmp.Compare(a.seq, b.seq) })
	out := make([]*model.DealApproval, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.ReconstructDealApproval(row.snap))
	}
	return out, err
}

// ---------------------------------------------------------------------------
// Thresholds, notes, outbox
// ---------------------------------------------------------------------------

type thresholdRepo struct{ run runner }

func (r thresholdRepo) Get(_ context.Context) (*model.ScoringThreshold, error) {
	var out *model.ScoringThreshold
	err := r.run(func(s *state) error {
		if s.threshold != nil {
			th := *s.threshold
			out = &th
		}
		return nil
	})
	return out, err
}

func (r thresholdRepo) Save(_ context.Context, th model.ScoringThreshold) error {
	return r.run(func(s *state) error {
		s.threshold = &th
		return nil
	})
}

type noteRepo struct{ run runner }

func (r noteRepo) Append(_ context.Context, notes ...model.DealNote) error {
	return r.run(func(s *state) error {
		s.notes = append(s.notes, notes...)
		return nil
	})
}

func (r noteRepo) ListByDeal(_ context.Context, dealID uuid.UUID) ([]model.DealNote, error) {
	var out []model.DealNote
	err := r.run(func(s *state) error {
		for _, n := range s.notes {
			if n.DealID == dealID {
				out = append(out, n)
			}
		}
		return nil
	})
	return out, err
}

type outboxRepo struct{ run runner }

func (r outboxRepo) Store(_ context.Context, entries []events.OutboxEntry) error {
	return r.run(func(s *state) error {
		s.outbox = append(s.outbox, entries...)
		return nil
	})
}

func (r outboxRepo) FetchUnpublished(_ context.Context, batchSize int) ([]events.OutboxEntry, error) {
	var out []events.OutboxEntry
	err := r.run(func(s *state) error {
		for _, e := range s.outbox {
			if e.PublishedAt != nil {
				continue
			}
			out = append(out, e)
			if batchSize > 0 && len(out) == batchSize {
				break
			}
		}
		return nil
	})
	return out, err
}

func (r outboxRepo) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	now := time.Now().UTC()
	return r.run(func(s *state) error {
		for i := range s.outbox {
			if slices.Contains(ids, s.outbox[i].ID) {
				s.outbox[i].PublishedAt = &now
			}
		}
		return nil
	})
}
