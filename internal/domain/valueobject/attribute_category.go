package valueobject

import "github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"

// AttributeCategory groups scoring attributes on the scorecard.
type AttributeCategory struct {
	value string
}

var (
	AttributeCategoryFinancial = AttributeCategory{value: "financial"}
	AttributeCategoryStrategic = AttributeCategory{value: "strategic"}
	AttributeCategoryRisk      = AttributeCategory{value: "risk"}
	AttributeCategoryCustomer  = AttributeCategory{value: "customer"}
)

// NewAttributeCategory parses a raw category string.
func NewAttributeCategory(s string) (AttributeCategory, error) {
	for _, c := range []AttributeCategory{
		AttributeCategoryFinancial, AttributeCategoryStrategic,
		AttributeCategoryRisk, AttributeCategoryCustomer,
	} {
		if c.value == s {
			return c, nil
		}
	}
	return AttributeCategory{}, domainerr.Validationf("invalid attribute category: %q", s)
}

func (c AttributeCategory) String() string { return c.value }

func (c AttributeCategory) IsZero() bool { return c.value == "" }

func (c AttributeCategory) Equal(other AttributeCategory) bool { return c.value == other.value }
