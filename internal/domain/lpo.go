package domain

import (
	"math"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Supplier is a vendor purchase orders are raised against.
type Supplier struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Email        string `json:"email"`
}

// Lpo is a local purchase order. LpoDate is a calendar date (YYYY-MM-DD).
type Lpo struct {
	LpoNo        string    `json:"lpo_no"`
	SupplierID   string    `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	LpoDate      string    `json:"lpo_date"`
	Remarks      string    `json:"remarks"`
	IsApproved   bool      `json:"is_approved"`
	TotalAmount  float64   `json:"total_amount"`
	Items        []LpoItem `json:"items"`
}

// LpoItem is one ordered drug.
type LpoItem struct {
	ItemNo    string  `json:"item_no"`
	DrugNo    string  `json:"drug_no"`
	DrugName  string  `json:"drug_name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// Validate checks the header and every item.
func (l Lpo) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.SupplierID, validation.Required, is.Digit),
		validation.Field(&l.LpoDate, validation.Date(time.DateOnly)),
		validation.Field(&l.Items, validation.Required),
	)
}

// Validate checks one order line.
func (i LpoItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.DrugNo, validation.Required, is.Digit),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&i.UnitPrice, validation.Min(0.0)),
	)
}

// LineTotal is unit price times quantity, rounded to cents.
func (i LpoItem) LineTotal() float64 {
	return roundCents(i.UnitPrice * float64(i.Quantity))
}

// Sum adds up the line totals of every item.
func (l Lpo) Sum() float64 {
	var sum float64
	for _, item := range l.Items {
		sum += item.LineTotal()
	}
	return roundCents(sum)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
