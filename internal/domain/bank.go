package domain

// Bank is the UI model for a bank used in payments.
type Bank struct {
	BankNo   string       `json:"bank_no"`
	BankName string       `json:"bank_name"`
	BankCode string       `json:"bank_code"`
	Branches []BankBranch `json:"branches,omitempty"`
}

// BankBranch is a branch belonging to a Bank.
type BankBranch struct {
	BranchNo   string `json:"branch_no"`
	BankNo     string `json:"bank_no"`
	BranchName string `json:"branch_name"`
	BranchCode string `json:"branch_code"`
}
