package mapping

import (
	"strconv"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/domain"
)

const (
	unknownDrugType = "Unknown"
	// drugServiceType is the service type the API expects for pharmacy items.
	drugServiceType     = 3
	defaultReorderLevel = 10
)

// DrugTypeToModel maps a wire drug type.
func DrugTypeToModel(d dto.DrugTypeDTO) domain.DrugType {
	return domain.DrugType{
		DrugTypeNo:   strconv.Itoa(d.DrugTypeNo),
		DrugTypeName: d.DrugType,
	}
}

// DrugTypesToModels maps a list of drug types.
func DrugTypesToModels(dtos []dto.DrugTypeDTO) []domain.DrugType {
	return mapAll(dtos, DrugTypeToModel)
}

// DrugTypeNames indexes type names by type number.
func DrugTypeNames(types []domain.DrugType) map[string]string {
	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.DrugTypeNo] = t.DrugTypeName
	}
	return names
}

// DrugToModel maps a wire drug, resolving its type name from typeNames.
func DrugToModel(d dto.DrugDTO, typeNames map[string]string) domain.Drug {
	typeNo := "0"
	if d.DrugTypeNo != nil {
		typeNo = strconv.Itoa(*d.DrugTypeNo)
	}
	typeName, ok := typeNames[typeNo]
	if !ok {
		typeName = unknownDrugType
	}
	return domain.Drug{
		DrugNo:        strconv.Itoa(d.DrugNo),
		DrugName:      d.DrugName,
		DrugTypeNo:    typeNo,
		DrugTypeName:  typeName,
		Manufacturer:  d.Manufacturer,
		ReorderLevel:  intOrZero(d.ReorderLevel),
		Description:   d.Description,
		StockQuantity: d.StockQty,
		UnitPrice:     intOrZero(d.DefaultPrice),
	}
}

// DrugsToModels maps a drug list.
func DrugsToModels(dtos []dto.DrugDTO, typeNames map[string]string) []domain.Drug {
	out := make([]domain.Drug, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, DrugToModel(d, typeNames))
	}
	return out
}

// DrugToSaveDTO builds the save payload for drugNo.
func DrugToSaveDTO(m domain.Drug, drugNo int) dto.SaveDrugDTO {
	reorder := m.ReorderLevel
	if reorder <= 0 {
		reorder = defaultReorderLevel
	}
	return dto.SaveDrugDTO{
		DrugNo:        drugNo,
		DrugName:      m.DrugName,
		DrugTypeNo:    atoiOrZero(m.DrugTypeNo),
		ServiceTypeNo: drugServiceType,
		ReorderLevel:  &reorder,
	}
}
