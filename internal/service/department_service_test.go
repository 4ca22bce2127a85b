package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/domain"
)

func TestDepartmentLifecycle(t *testing.T) {
	api := newFakeAPI()
	api.on("GET /api/Hospital/DepartmentInfo", []dto.DepartmentDTO{})
	api.on("GET /api/Hospital/DepartmentInfo/4", dto.DepartmentDTO{DepartmentNo: 4, CompanyNo: 1, ClinicBranchNo: 2, DepartmentName: "Radiology"})
	api.on("POST /api/Hospital/PostDepartmentInfo", dto.DepartmentDTO{})
	api.on("PUT /api/Hospital/PostDepartmentInfo/4", dto.DepartmentDTO{DepartmentNo: 4, CompanyNo: 1, ClinicBranchNo: 7, DepartmentName: "Imaging"})
	svc := NewDepartmentService(newTestClient(t, api), zap.NewNop())
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, domain.Department{DepartmentNo: "4", CompanyNo: "1", ClinicBranchNo: "2", DepartmentName: "Radiology"}, got)

	created, err := svc.Save(ctx, domain.Department{DepartmentName: "Pharmacy", CompanyNo: "1", ClinicBranchNo: "2"})
	require.NoError(t, err)
	assert.Equal(t, "1", created.DepartmentNo, "an empty list starts numbering at 1")
	var posted dto.DepartmentDTO
	require.NoError(t, json.Unmarshal(api.body("POST /api/Hospital/PostDepartmentInfo"), &posted))
	assert.Equal(t, 1, posted.DepartmentNo)

	got.DepartmentName = "imaging"
	updated, err := svc.Save(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Imaging", updated.DepartmentName)
	assert.Equal(t, "7", updated.ClinicBranchNo)
}
