package mapping

import (
	"strconv"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/domain"
)

func DepartmentToModel(d dto.DepartmentDTO) domain.Department {
	return domain.Department{
		DepartmentNo:   strconv.Itoa(d.DepartmentNo),
		CompanyNo:      strconv.Itoa(d.CompanyNo),
		ClinicBranchNo: strconv.Itoa(d.ClinicBranchNo),
		DepartmentName: d.DepartmentName,
	}
}

func DepartmentToDTO(m domain.Department) dto.DepartmentDTO {
	return dto.DepartmentDTO{
		DepartmentNo:   atoiOrZero(m.DepartmentNo),
		CompanyNo:      atoiOrZero(m.CompanyNo),
		ClinicBranchNo: atoiOrZero(m.ClinicBranchNo),
		DepartmentName: m.DepartmentName,
	}
}

func DepartmentsToModels(dtos []dto.DepartmentDTO) []domain.Department {
	return mapAll(dtos, DepartmentToModel)
}
