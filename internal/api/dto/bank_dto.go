package dto

// BankDTO mirrors the API's bank record.
type BankDTO struct {
	BankNo   int    `json:"pn_Bank_No"`
	BankName string `json:"v_Bank_Name"`
	BankCode string `json:"v_Bank_Code"`
}

// BankBranchDTO mirrors the API's bank branch record.
type BankBranchDTO struct {
	BranchNo   int    `json:"pn_Branch_No"`
	BankNo     int    `json:"fn_Bank_No"`
	BranchName string `json:"v_Branch_Name"`
	BranchCode string `json:"v_Branch_Code"`
}
