package domain

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Reagent is a laboratory consumable tracked by the portal itself.
type Reagent struct {
	ReagentNo    string `json:"reagent_no"`
	ReagentName  string `json:"reagent_name"`
	Description  string `json:"description"`
	ReorderLevel string `json:"reorder_level"`
}

// Validate checks the name and that a reorder level, when given, is a count.
func (r Reagent) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ReagentName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ReorderLevel, is.Digit),
	)
}
