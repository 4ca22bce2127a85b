package domain

// DrugType classifies drugs (tablet, syrup, ...).
type DrugType struct {
	DrugTypeNo   string `json:"drug_type_no"`
	DrugTypeName string `json:"drug_type_name"`
}

// Drug is the UI model of a stocked drug.
type Drug struct {
	DrugNo        string `json:"drug_no"`
	DrugName      string `json:"drug_name"`
	DrugTypeNo    string `json:"drug_type_no"`
	DrugTypeName  string `json:"drug_type_name"`
	Manufacturer  string `json:"manufacturer"`
	ReorderLevel  int    `json:"reorder_level"`
	Description   string `json:"description"`
	StockQuantity int    `json:"stock_quantity"`
	UnitPrice     int    `json:"unit_price"`
}

// Page is one window over a filtered list.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	PageIndex  int `json:"page_index"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPage slices items for the 1-based pageIndex.
func NewPage[T any](all []T, pageIndex, pageSize int) Page[T] {
	if pageIndex < 1 {
		pageIndex = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	total := len(all)
	start := (pageIndex - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return Page[T]{
		Items:      items,
		TotalCount: total,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.PageIndex < p.TotalPages
}
