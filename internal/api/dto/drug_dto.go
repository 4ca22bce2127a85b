package dto

// DrugTypeDTO mirrors the API's drug type record.
type DrugTypeDTO struct {
	DrugTypeNo  int    `json:"pn_Drug_Type_No"`
	DrugType    string `json:"v_Drug_Type"`
	Description string `json:"v_Description"`
}

// DrugDTO mirrors the API's drug list entry.
type DrugDTO struct {
	DrugNo         int    `json:"pn_Drug_No"`
	DrugName       string `json:"v_Drug_Name"`
	DrugTypeNo     *int   `json:"fn_Drug_Type_No"`
	ServiceTypeNo  *int   `json:"fn_Service_Type_No"`
	ManufacturerNo *int   `json:"fn_Manufacturer_No"`
	ReorderLevel   *int   `json:"n_Reorder_Level"`
	StockQty       int    `json:"n_Stock_Qty"`
	DefaultPrice   *int   `json:"n_Default_Price"`
	Description    string `json:"v_Description"`
	Manufacturer   string `json:"v_Manufacturer"`
}

// SaveDrugDTO is the payload accepted by the drug save/edit endpoints.
type SaveDrugDTO struct {
	DrugNo         int    `json:"pn_Drug_No"`
	DrugName       string `json:"v_Drug_Name"`
	DrugTypeNo     int    `json:"fn_Drug_Type_No"`
	ServiceTypeNo  int    `json:"fn_Service_Type_No"`
	ManufacturerNo *int   `json:"fn_Manufacturer_No"`
	ReorderLevel   *int   `json:"n_Reorder_Level"`
}
