package domain

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Hospital is the UI model of a clinic. Country, province and area are shown
// by name; names the portal does not know read as "Unknown".
type Hospital struct {
	ID              string `json:"id"`
	HospitalName    string `json:"hospital_name"`
	Country         string `json:"country"`
	Province        string `json:"province"`
	Area            string `json:"area"`
	PostalAddress   string `json:"postal_address"`
	PhysicalAddress string `json:"physical_address"`
	Tel1            string `json:"tel1"`
	Tel2            string `json:"tel2"`
	Mobile1         string `json:"mobile1"`
	Mobile2         string `json:"mobile2"`
	Fax             string `json:"fax"`
	Email           string `json:"email"`
	Website         string `json:"website"`
}

// Regions lists the selectable location names of the hospital form.
type Regions struct {
	Countries []string `json:"countries"`
	Provinces []string `json:"provinces"`
	Areas     []string `json:"areas"`
}

// Validate checks the fields the API rejects when malformed.
func (h Hospital) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.HospitalName, validation.Required, validation.Length(1, 200)),
		validation.Field(&h.Email, is.Email),
		validation.Field(&h.Website, is.URL),
	)
}
