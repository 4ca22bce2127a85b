package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/mapping"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

const (
	supplierListEndpoint = "API/DrugDetails/Supplier"
	lpoNumbersEndpoint   = "api/DrugDetails/LoadLPOList/%s"
	lpoDetailsEndpoint   = "api/DrugDetails/LPODetails/%s"
	lpoCreateEndpoint    = "api/DrugDetails/SaveLPO"
	lpoItemEndpoint      = "api/DrugDetails/SaveLPODetails"
)

// LpoService raises and reads local purchase orders.
type LpoService struct {
	client *apiclient.Client
	cfg    config.LpoConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewLpoService creates the service.
func NewLpoService(client *apiclient.Client, cfg config.LpoConfig, logger *zap.Logger) *LpoService {
	return &LpoService{client: client, cfg: cfg, logger: logger.Named("lpo"), now: time.Now}
}

// Suppliers lists the vendors orders can be raised against.
func (s *LpoService) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	dtos, err := apiclient.Get[[]dto.SupplierDTO](ctx, s.client, supplierListEndpoint)
	if err != nil {
		s.logger.Error("list suppliers", zap.Error(err))
		return nil, err
	}
	return mapping.SuppliersToModels(dtos), nil
}

// Numbers lists the distinct order numbers of supplierID, newest first. A
// supplier the API does not know has no orders.
func (s *LpoService) Numbers(ctx context.Context, supplierID string) ([]string, error) {
	lines, err := apiclient.Get[[]dto.LpoLineDTO](ctx, s.client, fmt.Sprintf(lpoNumbersEndpoint, supplierID))
	if status, ok := apperrors.UpstreamStatus(err); ok && status == http.StatusNotFound {
		s.logger.Debug("no orders for supplier", zap.String("supplier_id", supplierID))
		return []string{}, nil
	}
	if err != nil {
		s.logger.Error("list order numbers", zap.String("supplier_id", supplierID), zap.Error(err))
		return nil, err
	}

	seen := make(map[string]struct{}, len(lines))
	numbers := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.LpoNo == "" {
			continue
		}
		if _, dup := seen[line.LpoNo]; dup {
			continue
		}
		seen[line.LpoNo] = struct{}{}
		numbers = append(numbers, line.LpoNo)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(numbers)))
	return numbers, nil
}

// Get returns the order lpoNo with its items.
func (s *LpoService) Get(ctx context.Context, lpoNo string) (domain.Lpo, error) {
	lines, err := apiclient.Get[[]dto.LpoLineDTO](ctx, s.client, fmt.Sprintf(lpoDetailsEndpoint, lpoNo))
	if err != nil {
		s.logger.Error("get order", zap.String("lpo_no", lpoNo), zap.Error(err))
		return domain.Lpo{}, err
	}
	lpo, ok := mapping.LpoFromLines(lines)
	if !ok {
		return domain.Lpo{}, apperrors.NewNotFound("purchase order", map[string]any{"lpo_no": lpoNo})
	}
	s.logger.Debug("order fetched", zap.String("lpo_no", lpoNo), zap.Int("items", len(lpo.Items)))
	return lpo, nil
}

// Save writes a new order: the header first, then each item against the
// order number the API assigned. preparedBy is the user id of the author. An
// item that fails leaves the header and earlier items in place.
func (s *LpoService) Save(ctx context.Context, lpo domain.Lpo, preparedBy string) (domain.Lpo, error) {
	if lpo.LpoDate == "" {
		lpo.LpoDate = s.now().Format(time.DateOnly)
	}
	if err := validated(lpo); err != nil {
		return domain.Lpo{}, err
	}
	lpoDate, err := mapping.APITimestamp(lpo.LpoDate)
	if err != nil {
		return domain.Lpo{}, apperrors.NewValidationError("lpo_date must be YYYY-MM-DD", map[string]any{"lpo_date": lpo.LpoDate})
	}
	supplierNo := atoiOrZero(lpo.SupplierID)

	header := mapping.LpoToSaveDTO(lpo, lpoDate, supplierNo, atoiOrZero(preparedBy), s.cfg.CompanyNo, s.cfg.DepartmentNo)
	created, err := apiclient.Post[dto.SaveLpoDTO, dto.SaveLpoDTO](ctx, s.client, lpoCreateEndpoint, header)
	if err != nil {
		s.logger.Error("create order", zap.Error(err))
		return domain.Lpo{}, err
	}
	if created.LpoNo == "" {
		err := apperrors.NewDomainError("UPSTREAM_ERROR", "order saved without a number", http.StatusBadGateway, nil)
		s.logger.Error("create order", zap.Error(err))
		return domain.Lpo{}, err
	}
	lpo.LpoNo = created.LpoNo

	for i := range lpo.Items {
		item := &lpo.Items[i]
		if item.ItemNo == "" {
			item.ItemNo = strconv.Itoa(i + 1)
		}
		line := mapping.LpoItemToSaveDTO(lpo.LpoNo, *item, atoiOrZero(item.ItemNo), atoiOrZero(item.DrugNo))
		if _, err := apiclient.Post[dto.SaveLpoItemDTO, dto.SaveLpoItemDTO](ctx, s.client, lpoItemEndpoint, line); err != nil {
			s.logger.Error("save order item", zap.String("lpo_no", lpo.LpoNo), zap.String("item_no", item.ItemNo), zap.Error(err))
			return domain.Lpo{}, err
		}
		item.Total = item.LineTotal()
	}
	lpo.TotalAmount = lpo.Sum()

	s.logger.Info("order created", zap.String("lpo_no", lpo.LpoNo), zap.Int("items", len(lpo.Items)))
	return lpo, nil
}
