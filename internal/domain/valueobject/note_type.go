package valueobject

import "github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"

// NoteType classifies an audit note appended to a deal.
type NoteType struct {
	value string
}

var (
	NoteTypeStatusChange = NoteType{value: "status_change"}
	NoteTypeScoreUpdate  = NoteType{value: "score_update"}
	NoteTypeApproval     = NoteType{value: "approval"}
)

// NewNoteType parses a raw note type string.
func NewNoteType(s string) (NoteType, error) {
	for _, t := range []NoteType{NoteTypeStatusChange, NoteTypeScoreUpdate, NoteTypeApproval} {
		if t.value == s {
			return t, nil
		}
	}
	return NoteType{}, domainerr.Validationf("invalid note type: %q", s)
}

func (t NoteType) String() string { return t.value }

func (t NoteType) IsZero() bool { return t.value == "" }
