package domain

// Department groups clinic staff under a company branch.
type Department struct {
	DepartmentNo   string `json:"department_no"`
	CompanyNo      string `json:"company_no"`
	ClinicBranchNo string `json:"clinic_branch_no"`
	DepartmentName string `json:"department_name"`
}
