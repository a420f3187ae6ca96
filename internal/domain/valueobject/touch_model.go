package valueobject

import "github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"

// TouchModel labels how much manual review a segment requires.
type TouchModel struct {
	value string
}

var (
	TouchModelNoTouch   = TouchModel{value: "no_touch"}
	TouchModelLowTouch  = TouchModel{value: "low_touch"}
	TouchModelMidTouch  = TouchModel{value: "mid_touch"}
	TouchModelHighTouch = TouchModel{value: "high_touch"}
)

// NewTouchModel parses a raw touch model string.
func NewTouchModel(s string) (TouchModel, error) {
	for _, m := range []TouchModel{TouchModelNoTouch, TouchModelLowTouch, TouchModelMidTouch, TouchModelHighTouch} {
		if m.value == s {
			return m, nil
		}
	}
	return TouchModel{}, domainerr.Validationf("invalid touch model: %q", s)
}

func (m TouchModel) String() string { return m.value }

func (m TouchModel) IsZero() bool { return m.value == "" }

func (m TouchModel) Equal(other TouchModel) bool { return m.value == other.value }
