package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/mapping"
)

const (
	departmentListEndpoint = "api/Hospital/DepartmentInfo"
	departmentGetEndpoint  = "api/Hospital/DepartmentInfo/%s"
	departmentSaveEndpoint = "api/Hospital/PostDepartmentInfo"
)

// DepartmentService manages clinic departments through the API.
type DepartmentService struct {
	client *apiclient.Client
	logger *zap.Logger
}

// NewDepartmentService creates the service.
func NewDepartmentService(client *apiclient.Client, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{client: client, logger: logger.Named("departments")}
}

// List returns every department.
func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	dtos, err := apiclient.Get[[]dto.DepartmentDTO](ctx, s.client, departmentListEndpoint)
	if err != nil {
		s.logger.Error("list departments", zap.Error(err))
		return nil, err
	}
	s.logger.Debug("departments fetched", zap.Int("count", len(dtos)))
	return mapping.DepartmentsToModels(dtos), nil
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (domain.Department, error) {
	d, err := apiclient.Get[dto.DepartmentDTO](ctx, s.client, fmt.Sprintf(departmentGetEndpoint, id))
	if err != nil {
		return domain.Department{}, err
	}
	return mapping.DepartmentToModel(d), nil
}

// Save creates the department when it has no number yet, otherwise updates it.
// Updates go to the save endpoint with the id appended.
func (s *DepartmentService) Save(ctx context.Context, department domain.Department) (domain.Department, error) {
	if err := requireField("department_name", department.DepartmentName); err != nil {
		return domain.Department{}, err
	}
	payload := mapping.DepartmentToDTO(department)

	if department.DepartmentNo == "" {
		existing, err := apiclient.Get[[]dto.DepartmentDTO](ctx, s.client, departmentListEndpoint)
		if err != nil {
			return domain.Department{}, err
		}
		payload.DepartmentNo = nextID(existing, func(d dto.DepartmentDTO) int { return d.DepartmentNo })
		if _, err := apiclient.Post[dto.DepartmentDTO, dto.DepartmentDTO](ctx, s.client, departmentSaveEndpoint, payload); err != nil {
			s.logger.Error("create department", zap.Error(err))
			return domain.Department{}, err
		}
		s.logger.Info("department created", zap.Int("department_no", payload.DepartmentNo))
		return mapping.DepartmentToModel(payload), nil
	}

	updated, err := apiclient.Put[dto.DepartmentDTO, dto.DepartmentDTO](ctx, s.client, fmt.Sprintf("%s/%d", departmentSaveEndpoint, payload.DepartmentNo), payload)
	if err != nil {
		s.logger.Error("update department", zap.String("department_no", department.DepartmentNo), zap.Error(err))
		return domain.Department{}, err
	}
	department.DepartmentName = updated.DepartmentName
	department.CompanyNo = fmt.Sprint(updated.CompanyNo)
	department.ClinicBranchNo = fmt.Sprint(updated.ClinicBranchNo)
	return department, nil
}
