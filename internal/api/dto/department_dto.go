package dto

// DepartmentDTO mirrors the API's department record.
type DepartmentDTO struct {
	DepartmentNo   int    `json:"pn_Department_No"`
	CompanyNo      int    `json:"fn_Company_No"`
	ClinicBranchNo int    `json:"fn_Clinic_Branch_No"`
	DepartmentName string `json:"v_Department_name"`
}
