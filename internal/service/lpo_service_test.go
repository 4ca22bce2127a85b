package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/domain"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

func newLpoService(t *testing.T, api *fakeAPI) *LpoService {
	t.Helper()
	svc := NewLpoService(newTestClient(t, api), config.LpoConfig{CompanyNo: 1, DepartmentNo: 4}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC) }
	return svc
}

func TestLpoSuppliers(t *testing.T) {
	api := newFakeAPI()
	api.on("GET /API/DrugDetails/Supplier", []dto.SupplierDTO{{EntityNo: 5, FirstName: "ABC Pharmaceuticals"}})
	svc := newLpoService(t, api)

	suppliers, err := svc.Suppliers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Supplier{{SupplierID: "5", SupplierName: "ABC Pharmaceuticals"}}, suppliers)
}

func TestLpoNumbersDistinctNewestFirst(t *testing.T) {
	api := newFakeAPI()
	api.on("GET /api/DrugDetails/LoadLPOList/5", []dto.LpoLineDTO{
		{LpoNo: "LPO-0002"}, {LpoNo: "LPO-0010"}, {LpoNo: ""}, {LpoNo: "LPO-0002"},
	})
	svc := newLpoService(t, api)

	numbers, err := svc.Numbers(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, []string{"LPO-0010", "LPO-0002"}, numbers)
}

func TestLpoNumbersUnknownSupplier(t *testing.T) {
	api := newFakeAPI()
	api.fail("GET /api/DrugDetails/LoadLPOList/9", http.StatusNotFound)
	api.fail("GET /api/DrugDetails/LoadLPOList/10", http.StatusInternalServerError)
	svc := newLpoService(t, api)
	ctx := context.Background()

	numbers, err := svc.Numbers(ctx, "9")
	require.NoError(t, err)
	assert.Empty(t, numbers)

	_, err = svc.Numbers(ctx, "10")
	assert.Error(t, err)
}

func TestLpoGet(t *testing.T) {
	approved := 7
	drug := 3
	qty := 10
	price := 1.5
	api := newFakeAPI()
	api.on("GET /api/DrugDetails/LPODetails/LPO-0002", []dto.LpoLineDTO{
		{LpoNo: "LPO-0002", SupplierNo: 5, EntryDate: "2024-03-01T00:00:00", StatusNo: &approved, DrugNo: &drug, ItemName: "Amoxil", OrderedQty: &qty, UnitPrice: &price},
	})
	api.on("GET /api/DrugDetails/LPODetails/LPO-0404", []dto.LpoLineDTO{})
	svc := newLpoService(t, api)
	ctx := context.Background()

	lpo, err := svc.Get(ctx, "LPO-0002")
	require.NoError(t, err)
	assert.True(t, lpo.IsApproved)
	assert.Equal(t, 15.0, lpo.TotalAmount)

	_, err = svc.Get(ctx, "LPO-0404")
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLpoSaveWritesHeaderThenItems(t *testing.T) {
	api := newFakeAPI()
	api.on("POST /api/DrugDetails/SaveLPO", dto.SaveLpoDTO{LpoNo: "LPO-0011"})
	api.on("POST /api/DrugDetails/SaveLPODetails", dto.SaveLpoItemDTO{})
	svc := newLpoService(t, api)

	saved, err := svc.Save(context.Background(), domain.Lpo{
		SupplierID: "5",
		Remarks:    "monthly",
		Items: []domain.LpoItem{
			{DrugNo: "1", UnitPrice: 2, Quantity: 5},
			{DrugNo: "3", UnitPrice: 0.5, Quantity: 4},
		},
	}, "42")
	require.NoError(t, err)
	assert.Equal(t, "LPO-0011", saved.LpoNo)
	assert.Equal(t, "2024-03-09", saved.LpoDate)
	assert.Equal(t, "2", saved.Items[1].ItemNo)
	assert.Equal(t, 12.0, saved.TotalAmount)

	var header dto.SaveLpoDTO
	require.NoError(t, json.Unmarshal(api.body("POST /api/DrugDetails/SaveLPO"), &header))
	assert.Equal(t, "2024-03-09T00:00:00", header.LpoDate)
	assert.Equal(t, 5, header.SupplierNo)
	assert.Equal(t, 42, header.PreparedBy)
	assert.Equal(t, 4, header.DepartmentNo)
	require.NotNil(t, header.StatusNo)
	assert.Equal(t, 8, *header.StatusNo)

	assert.Equal(t, 2, api.callCount("POST /api/DrugDetails/SaveLPODetails"))
	var last dto.SaveLpoItemDTO
	require.NoError(t, json.Unmarshal(api.body("POST /api/DrugDetails/SaveLPODetails"), &last))
	assert.Equal(t, dto.SaveLpoItemDTO{LpoNo: "LPO-0011", ItemNo: 2, DrugNo: 3, UnitPrice: 0.5, OrderedQty: 4, TotalPrice: 2}, last)
}

func TestLpoSaveRejectsBeforeCallingAPI(t *testing.T) {
	api := newFakeAPI()
	svc := newLpoService(t, api)
	ctx := context.Background()

	cases := []domain.Lpo{
		{SupplierID: "abc", Items: []domain.LpoItem{{DrugNo: "1", Quantity: 1}}},
		{SupplierID: "5"},
		{SupplierID: "5", LpoDate: "09/03/2024", Items: []domain.LpoItem{{DrugNo: "1", Quantity: 1}}},
		{SupplierID: "5", Items: []domain.LpoItem{{DrugNo: "x", Quantity: 1}}},
		{SupplierID: "5", Items: []domain.LpoItem{{DrugNo: "1", Quantity: 0}}},
	}
	for _, lpo := range cases {
		_, err := svc.Save(ctx, lpo, "42")
		assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
	}
	assert.Zero(t, api.callCount("POST /api/DrugDetails/SaveLPO"))
}

func TestLpoSaveWithoutAssignedNumber(t *testing.T) {
	api := newFakeAPI()
	api.on("POST /api/DrugDetails/SaveLPO", dto.SaveLpoDTO{})
	svc := newLpoService(t, api)

	_, err := svc.Save(context.Background(), domain.Lpo{SupplierID: "5", Items: []domain.LpoItem{{DrugNo: "1", Quantity: 1}}}, "42")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperrors.ToDomainError(err).HTTPStatus)
	assert.Zero(t, api.callCount("POST /api/DrugDetails/SaveLPODetails"))
}
