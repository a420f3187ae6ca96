package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/valueobject"
)

// DealNote is an append-only audit entry on a deal.
type DealNote struct {
	CreatedAt time.Time
	Metadata  map[string]any
	AuthorID  *uuid.UUID
	Type      valueobject.NoteType
	Content   string
	ID        uuid.UUID
	DealID    uuid.UUID
}

// NewDealNote builds an audit note. A nil author marks a system-generated note.
func NewDealNote(dealID uuid.UUID, author *uuid.UUID, noteType valueobject.NoteType, content string, metadata map[string]any, now time.Time) (DealNote, error) {
	content = strings.TrimSpace(content)
	if noteType.IsZero() {
		return DealNote{}, domainerr.Validationf("note type is required")
	}
	if content == "" {
		return DealNote{}, domainerr.Validationf("note content is required")
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return DealNote{
		ID:        uuid.New(),
		DealID:    dealID,
		AuthorID:  author,
		Type:      noteType,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: now,
	}, nil
}
