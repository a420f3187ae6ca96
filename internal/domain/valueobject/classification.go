package valueobject

import "github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"

// Classification is the green/yellow/red quality tier derived from a deal's total
// score. The zero value means "unclassified".
type Classification struct {
	value string
}

var (
	ClassificationGreen  = Classification{value: "green"}
	ClassificationYellow = Classification{value: "yellow"}
	ClassificationRed    = Classification{value: "red"}
)

// NewClassification parses a raw value. The empty string yields the zero value.
func NewClassification(s string) (Classification, error) {
	switch s {
	case "":
		return Classification{}, nil
	case "green":
		return ClassificationGreen, nil
	case "yellow":
		return ClassificationYellow, nil
	case "red":
		return ClassificationRed, nil
	}
	return Classification{}, domainerr.Validationf("invalid classification: %q", s)
}

// ClassificationFromScore applies the threshold policy: score >= greenMin is green,
// score >= yellowMin is yellow, anything lower is red.
func ClassificationFromScore(score, greenMin, yellowMin float64) Classification {
	switch {
	case score >= greenMin:
		return ClassificationGreen
	case score >= yellowMin:
		return ClassificationYellow
	default:
		return ClassificationRed
	}
}

func (c Classification) String() string { return c.value }

// IsZero reports an unclassified deal.
func (c Classification) IsZero() bool { return c.value == "" }

func (c Classification) Equal(other Classification) bool { return c.value == other.value }
