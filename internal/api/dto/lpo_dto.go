package dto

// SupplierDTO is an entity the pharmacy orders from.
type SupplierDTO struct {
	EntityNo       int    `json:"pn_Entity_No"`
	FirstName      string `json:"v_FName"`
	EntityTypeCode string `json:"fv_Entity_Type_Code"`
}

// LpoLineDTO is one row of an order as returned by LPODetails and
// LoadLPOList. Header fields repeat on every row; dates use the API's
// zone-less timestamp format.
type LpoLineDTO struct {
	LpoNo        string   `json:"pfv_LPO_No"`
	Name         string   `json:"name"`
	DrugNo       *int     `json:"fn_Drug_No"`
	InvoiceNo    string   `json:"v_Invoice_No"`
	EntryDate    string   `json:"d_Entry_Date"`
	ReceivedBy   *int     `json:"fn_Received_By"`
	UnitPrice    *float64 `json:"n_Unit_Price"`
	OrderedQty   *int     `json:"n_Ordered_Qty"`
	QtyReceived  *int     `json:"n_Qty_Received"`
	ExpiryDate   string   `json:"d_Exp_Date"`
	Discount     *float64 `json:"n_Discount"`
	Bonus        *int     `json:"n_Bonus"`
	TotalPrice   *float64 `json:"n_Total_Price"`
	ItemName     string   `json:"itemName"`
	DepartmentNo *int     `json:"fn_Department_No"`
	SupplierNo   int      `json:"fn_Supplier_No"`
	StatusNo     *int     `json:"fn_LPO_Status_No"`
}

// SaveLpoDTO is the order header sent to SaveLPO. The API answers with the
// same shape carrying the assigned LpoNo.
type SaveLpoDTO struct {
	LpoNo        string `json:"pv_LPO_No"`
	LpoDate      string `json:"d_LPO_Date"`
	Remarks      string `json:"v_LPO_Remarks"`
	SupplierNo   int    `json:"fn_Supplier_No"`
	PreparedBy   int    `json:"fn_Prepared_By"`
	CompanyNo    int    `json:"fn_Company_No"`
	ApprovedBy   int    `json:"fn_Approved_By"`
	Status       string `json:"v_LPO_Status"`
	StatusNo     *int   `json:"fn_LPO_Status_No"`
	DepartmentNo int    `json:"fn_Department_No"`
}

// SaveLpoItemDTO is one order line sent to SaveLPODetails.
type SaveLpoItemDTO struct {
	LpoNo      string  `json:"pfv_LPO_No"`
	ItemNo     int     `json:"pn_Item_No"`
	DrugNo     int     `json:"fn_Drug_No"`
	UnitPrice  float64 `json:"n_Unit_Price"`
	OrderedQty int     `json:"n_Ordered_Qty"`
	TotalPrice float64 `json:"n_Total_Price"`
}
