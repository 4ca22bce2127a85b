package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/mapping"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

const (
	bankListEndpoint     = "api/Hospital/bankInfo"
	bankCreateEndpoint   = "api/Hospital/PostBankInfo"
	bankUpdateEndpoint   = "api/Hospital/EditBankInfo/%d"
	branchAllEndpoint    = "api/Hospital/bankBranchInfo"
	branchByBankEndpoint = "api/Hospital/BranchList/%s"
	branchGetEndpoint    = "api/Hospital/BankBranchInfo/%s"
	branchCreateEndpoint = "api/Hospital/PostBankBranchInfo"
	branchUpdateEndpoint = "api/Hospital/EditBankBranchInfo/%d"
)

// BankService manages banks and their branches through the API.
type BankService struct {
	client *apiclient.Client
	logger *zap.Logger
}

// NewBankService creates the service.
func NewBankService(client *apiclient.Client, logger *zap.Logger) *BankService {
	return &BankService{client: client, logger: logger.Named("banks")}
}

// List returns every bank.
func (s *BankService) List(ctx context.Context) ([]domain.Bank, error) {
	dtos, err := apiclient.Get[[]dto.BankDTO](ctx, s.client, bankListEndpoint)
	if err != nil {
		s.logger.Error("list banks", zap.Error(err))
		return nil, err
	}
	return mapping.BanksToModels(dtos), nil
}

// Get returns the bank with id. The API has no single-bank endpoint.
func (s *BankService) Get(ctx context.Context, id string) (domain.Bank, error) {
	banks, err := s.List(ctx)
	if err != nil {
		return domain.Bank{}, err
	}
	for _, b := range banks {
		if b.BankNo == id {
			return b, nil
		}
	}
	return domain.Bank{}, apperrors.NewNotFound("bank", map[string]any{"bank_no": id})
}

// Save creates the bank when it has no number yet, otherwise updates it.
func (s *BankService) Save(ctx context.Context, bank domain.Bank) (domain.Bank, error) {
	if err := requireField("bank_name", bank.BankName); err != nil {
		return domain.Bank{}, err
	}
	payload := mapping.BankToDTO(bank)

	if bank.BankNo == "" {
		existing, err := apiclient.Get[[]dto.BankDTO](ctx, s.client, bankListEndpoint)
		if err != nil {
			return domain.Bank{}, err
		}
		payload.BankNo = nextID(existing, func(b dto.BankDTO) int { return b.BankNo })
		if _, err := apiclient.Post[dto.BankDTO, dto.BankDTO](ctx, s.client, bankCreateEndpoint, payload); err != nil {
			s.logger.Error("create bank", zap.Error(err))
			return domain.Bank{}, err
		}
		s.logger.Info("bank created", zap.Int("bank_no", payload.BankNo))
		return mapping.BankToModel(payload), nil
	}

	updated, err := apiclient.Put[dto.BankDTO, dto.BankDTO](ctx, s.client, fmt.Sprintf(bankUpdateEndpoint, payload.BankNo), payload)
	if err != nil {
		s.logger.Error("update bank", zap.String("bank_no", bank.BankNo), zap.Error(err))
		return domain.Bank{}, err
	}
	bank.BankName = updated.BankName
	bank.BankCode = updated.BankCode
	s.logger.Info("bank updated", zap.String("bank_no", bank.BankNo))
	return bank, nil
}

// Branches lists the branches of bankID.
func (s *BankService) Branches(ctx context.Context, bankID string) ([]domain.BankBranch, error) {
	dtos, err := apiclient.Get[[]dto.BankBranchDTO](ctx, s.client, fmt.Sprintf(branchByBankEndpoint, bankID))
	if err != nil {
		s.logger.Error("list branches", zap.String("bank_no", bankID), zap.Error(err))
		return nil, err
	}
	return mapping.BranchesToModels(dtos), nil
}

// Branch returns one branch.
func (s *BankService) Branch(ctx context.Context, id string) (domain.BankBranch, error) {
	branch, err := apiclient.Get[dto.BankBranchDTO](ctx, s.client, fmt.Sprintf(branchGetEndpoint, id))
	if err != nil {
		return domain.BankBranch{}, err
	}
	return mapping.BranchToModel(branch), nil
}

// SaveBranch creates or updates a branch. Branch numbers are unique across banks.
func (s *BankService) SaveBranch(ctx context.Context, branch domain.BankBranch) (domain.BankBranch, error) {
	if err := requireField("branch_name", branch.BranchName); err != nil {
		return domain.BankBranch{}, err
	}
	if err := requireField("bank_no", branch.BankNo); err != nil {
		return domain.BankBranch{}, err
	}
	payload := mapping.BranchToDTO(branch)

	if branch.BranchNo == "" {
		existing, err := apiclient.Get[[]dto.BankBranchDTO](ctx, s.client, branchAllEndpoint)
		if err != nil {
			return domain.BankBranch{}, err
		}
		payload.BranchNo = nextID(existing, func(b dto.BankBranchDTO) int { return b.BranchNo })
		if _, err := apiclient.Post[dto.BankBranchDTO, dto.BankBranchDTO](ctx, s.client, branchCreateEndpoint, payload); err != nil {
			s.logger.Error("create branch", zap.Error(err))
			return domain.BankBranch{}, err
		}
		s.logger.Info("bank branch created", zap.Int("branch_no", payload.BranchNo))
		return mapping.BranchToModel(payload), nil
	}

	updated, err := apiclient.Put[dto.BankBranchDTO, dto.BankBranchDTO](ctx, s.client, fmt.Sprintf(branchUpdateEndpoint, payload.BranchNo), payload)
	if err != nil {
		s.logger.Error("update branch", zap.String("branch_no", branch.BranchNo), zap.Error(err))
		return domain.BankBranch{}, err
	}
	branch.BranchName = updated.BranchName
	branch.BranchCode = updated.BranchCode
	return branch, nil
}
