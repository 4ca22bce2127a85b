package dto

// HospitalDTO mirrors the API's clinic record.
type HospitalDTO struct {
	ClinicCode      int    `json:"pn_Clinic_Code"`
	ClinicName      string `json:"v_Clinic_Name"`
	CountryNo       int    `json:"fn_Country_No"`
	ProvinceNo      int    `json:"fn_Province_No"`
	AreaNo          int    `json:"fn_Area_No"`
	PostalAddress   string `json:"v_Postal_Address"`
	PhysicalAddress string `json:"v_Physical_Address"`
	Tel1            string `json:"v_Tel1"`
	Tel2            string `json:"v_Tel2"`
	Mobile1         string `json:"v_Mobile1"`
	Mobile2         string `json:"v_Mobile2"`
	Fax             string `json:"v_Fax"`
	Email           string `json:"v_Email"`
	Website         string `json:"v_Website"`
}
