package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/mapping"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

const (
	hospitalListEndpoint   = "api/Hospital/HospitalInfo"
	hospitalGetEndpoint    = "api/Hospital/HospitalInfo/%s"
	hospitalUpdateEndpoint = "api/Hospital/EditHospitalInfo/%d"
)

// HospitalService manages clinics through the API.
type HospitalService struct {
	client *apiclient.Client
	logger *zap.Logger
}

// NewHospitalService creates the service.
func NewHospitalService(client *apiclient.Client, logger *zap.Logger) *HospitalService {
	return &HospitalService{client: client, logger: logger.Named("hospitals")}
}

// List returns every hospital.
func (s *HospitalService) List(ctx context.Context) ([]domain.Hospital, error) {
	dtos, err := apiclient.Get[[]dto.HospitalDTO](ctx, s.client, hospitalListEndpoint)
	if err != nil {
		s.logger.Error("list hospitals", zap.Error(err))
		return nil, err
	}
	s.logger.Debug("hospitals fetched", zap.Int("count", len(dtos)))
	return mapping.HospitalsToModels(dtos), nil
}

// Get returns one hospital.
func (s *HospitalService) Get(ctx context.Context, id string) (domain.Hospital, error) {
	d, err := apiclient.Get[dto.HospitalDTO](ctx, s.client, fmt.Sprintf(hospitalGetEndpoint, id))
	if err != nil {
		s.logger.Error("get hospital", zap.String("id", id), zap.Error(err))
		return domain.Hospital{}, err
	}
	return mapping.HospitalToModel(d), nil
}

// Regions lists the location names the hospital form offers.
func (s *HospitalService) Regions() domain.Regions {
	return mapping.HospitalRegions()
}

// Save creates the hospital when it has no id yet, otherwise updates it.
func (s *HospitalService) Save(ctx context.Context, hospital domain.Hospital) (domain.Hospital, error) {
	hospital.HospitalName = strings.TrimSpace(hospital.HospitalName)
	if err := validated(hospital); err != nil {
		return domain.Hospital{}, err
	}
	payload := mapping.HospitalToDTO(hospital)

	if hospital.ID == "" {
		existing, err := apiclient.Get[[]dto.HospitalDTO](ctx, s.client, hospitalListEndpoint)
		if err != nil {
			return domain.Hospital{}, err
		}
		payload.ClinicCode = nextID(existing, func(h dto.HospitalDTO) int { return h.ClinicCode })
		if _, err := apiclient.Post[dto.HospitalDTO, dto.HospitalDTO](ctx, s.client, hospitalListEndpoint, payload); err != nil {
			s.logger.Error("create hospital", zap.Error(err))
			return domain.Hospital{}, err
		}
		s.logger.Info("hospital created", zap.Int("clinic_code", payload.ClinicCode))
		return mapping.HospitalToModel(payload), nil
	}

	if payload.ClinicCode == 0 {
		return domain.Hospital{}, apperrors.NewValidationError("id must be numeric", map[string]any{"id": hospital.ID})
	}
	if _, err := apiclient.Put[dto.HospitalDTO, dto.HospitalDTO](ctx, s.client, fmt.Sprintf(hospitalUpdateEndpoint, payload.ClinicCode), payload); err != nil {
		s.logger.Error("update hospital", zap.String("id", hospital.ID), zap.Error(err))
		return domain.Hospital{}, err
	}
	s.logger.Info("hospital updated", zap.String("id", hospital.ID))
	return mapping.HospitalToModel(payload), nil
}
