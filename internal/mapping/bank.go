package mapping

import (
	"strconv"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/domain"
)

// BankToModel maps a wire bank to its UI model.
func BankToModel(d dto.BankDTO) domain.Bank {
	return domain.Bank{
		BankNo:   strconv.Itoa(d.BankNo),
		BankName: d.BankName,
		BankCode: d.BankCode,
	}
}

// BankToDTO maps a UI bank back to the wire shape. Unparseable ids become 0.
func BankToDTO(m domain.Bank) dto.BankDTO {
	return dto.BankDTO{
		BankNo:   atoiOrZero(m.BankNo),
		BankName: m.BankName,
		BankCode: m.BankCode,
	}
}

// BanksToModels maps a list of banks.
func BanksToModels(dtos []dto.BankDTO) []domain.Bank {
	return mapAll(dtos, BankToModel)
}

// BranchToModel maps a wire branch to its UI model.
func BranchToModel(d dto.BankBranchDTO) domain.BankBranch {
	return domain.BankBranch{
		BranchNo:   strconv.Itoa(d.BranchNo),
		BankNo:     strconv.Itoa(d.BankNo),
		BranchName: d.BranchName,
		BranchCode: d.BranchCode,
	}
}

// BranchToDTO maps a UI branch back to the wire shape.
func BranchToDTO(m domain.BankBranch) dto.BankBranchDTO {
	return dto.BankBranchDTO{
		BranchNo:   atoiOrZero(m.BranchNo),
		BankNo:     atoiOrZero(m.BankNo),
		BranchName: m.BranchName,
		BranchCode: m.BranchCode,
	}
}

// BranchesToModels maps a list of branches.
func BranchesToModels(dtos []dto.BankBranchDTO) []domain.BankBranch {
	return mapAll(dtos, BranchToModel)
}
