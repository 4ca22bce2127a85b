package mapping

import (
	"strconv"
	"time"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/domain"
)

// Order status numbers used by the API.
const (
	LpoStatusApproved = 7
	LpoStatusPending  = 8
)

// apiTimestamp is the zone-less layout the API uses for dates.
const apiTimestamp = "2006-01-02T15:04:05"

var apiDateLayouts = []string{apiTimestamp, time.RFC3339Nano, "2006-01-02T15:04:05.999999999", time.DateOnly}

// calendarDate reduces an API timestamp to YYYY-MM-DD. Unparseable input
// yields "".
func calendarDate(s string) string {
	for _, layout := range apiDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return ""
}

// APITimestamp turns a YYYY-MM-DD date into the API's timestamp format.
func APITimestamp(date string) (string, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", err
	}
	return t.Format(apiTimestamp), nil
}

// SupplierToModel maps a wire supplier. The API carries no supplier email.
func SupplierToModel(d dto.SupplierDTO) domain.Supplier {
	return domain.Supplier{
		SupplierID:   strconv.Itoa(d.EntityNo),
		SupplierName: d.FirstName,
	}
}

// SuppliersToModels maps a list of suppliers.
func SuppliersToModels(dtos []dto.SupplierDTO) []domain.Supplier {
	return mapAll(dtos, SupplierToModel)
}

// LpoFromLines folds the rows of one order into an Lpo. Header fields come
// from the first row; rows without a drug carry no item. ok is false when
// lines is empty.
func LpoFromLines(lines []dto.LpoLineDTO) (domain.Lpo, bool) {
	if len(lines) == 0 {
		return domain.Lpo{}, false
	}
	head := lines[0]
	lpo := domain.Lpo{
		LpoNo:      head.LpoNo,
		SupplierID: strconv.Itoa(head.SupplierNo),
		LpoDate:    calendarDate(head.EntryDate),
		IsApproved: head.StatusNo != nil && *head.StatusNo == LpoStatusApproved,
		Items:      make([]domain.LpoItem, 0, len(lines)),
	}
	for _, line := range lines {
		if line.DrugNo == nil {
			continue
		}
		drugNo := strconv.Itoa(*line.DrugNo)
		item := domain.LpoItem{
			ItemNo:    drugNo,
			DrugNo:    drugNo,
			DrugName:  line.ItemName,
			UnitPrice: floatOrZero(line.UnitPrice),
			Quantity:  intOrZero(line.OrderedQty),
		}
		item.Total = item.LineTotal()
		lpo.Items = append(lpo.Items, item)
	}
	lpo.TotalAmount = lpo.Sum()
	return lpo, true
}

// LpoToSaveDTO builds the header written by SaveLPO. lpoDate must already be
// in the API's timestamp format.
func LpoToSaveDTO(m domain.Lpo, lpoDate string, supplierNo, preparedBy, companyNo, departmentNo int) dto.SaveLpoDTO {
	status := LpoStatusPending
	if m.IsApproved {
		status = LpoStatusApproved
	}
	return dto.SaveLpoDTO{
		LpoDate:      lpoDate,
		Remarks:      m.Remarks,
		SupplierNo:   supplierNo,
		PreparedBy:   preparedBy,
		CompanyNo:    companyNo,
		StatusNo:     &status,
		DepartmentNo: departmentNo,
	}
}

// LpoItemToSaveDTO builds one line written by SaveLPODetails.
func LpoItemToSaveDTO(lpoNo string, item domain.LpoItem, itemNo, drugNo int) dto.SaveLpoItemDTO {
	return dto.SaveLpoItemDTO{
		LpoNo:      lpoNo,
		ItemNo:     itemNo,
		DrugNo:     drugNo,
		UnitPrice:  item.UnitPrice,
		OrderedQty: item.Quantity,
		TotalPrice: item.LineTotal(),
	}
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
