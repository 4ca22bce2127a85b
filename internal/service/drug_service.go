package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/apiclient"
	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/mapping"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

const (
	drugTypesEndpoint  = "api/Hospital/DrugType"
	drugListEndpoint   = "API/DrugDetails/DrugList"
	drugGetEndpoint    = "API/DrugDetails/DrugList/%s"
	drugCreateEndpoint = "API/DrugDetails/SaveDrug"
	drugUpdateEndpoint = "API/DrugDetails/EditDrug/%d"

	drugTypesKey = "drug-types"
	drugListKey  = "drug-list"

	// fillTimeout bounds a shared cache fill, which does not end with the
	// request that started it.
	fillTimeout = 30 * time.Second
)

// manufacturers is the fixed supplier list offered by the drug form; the API
// has no manufacturer endpoint.
var manufacturers = []string{"GSK", "Pfizer", "Roche", "Novartis", "Merck"}

// DrugQuery filters and pages the drug list.
type DrugQuery struct {
	Search     string
	DrugTypeNo string
	Page       int
	PageSize   int
}

// DrugService serves the pharmacy catalogue. Drug types and the drug list are
// cached process-wide.
type DrugService struct {
	client *apiclient.Client
	logger *zap.Logger

	types *expirable.LRU[string, []domain.DrugType]
	drugs *expirable.LRU[string, []domain.Drug]
	fills singleflight.Group
}

// NewDrugService creates the service with cache lifetimes from cfg.
func NewDrugService(client *apiclient.Client, cfg config.CacheConfig, logger *zap.Logger) *DrugService {
	typesTTL := time.Duration(cfg.DrugTypesTTLMinutes) * time.Minute
	if typesTTL <= 0 {
		typesTTL = 30 * time.Minute
	}
	listTTL := time.Duration(cfg.DrugListTTLSeconds) * time.Second
	if listTTL <= 0 {
		listTTL = time.Minute
	}
	return &DrugService{
		client: client,
		logger: logger.Named("drugs"),
		types:  expirable.NewLRU[string, []domain.DrugType](1, nil, typesTTL),
		drugs:  expirable.NewLRU[string, []domain.Drug](1, nil, listTTL),
	}
}

// Types returns the drug types, from cache when fresh.
func (s *DrugService) Types(ctx context.Context) ([]domain.DrugType, error) {
	if types, ok := s.types.Get(drugTypesKey); ok {
		return types, nil
	}
	v, err := s.fill(ctx, drugTypesKey, func(ctx context.Context) (any, error) {
		dtos, err := apiclient.Get[[]dto.DrugTypeDTO](ctx, s.client, drugTypesEndpoint)
		if err != nil {
			return nil, err
		}
		types := mapping.DrugTypesToModels(dtos)
		s.types.Add(drugTypesKey, types)
		s.logger.Info("drug types cached", zap.Int("count", len(types)))
		return types, nil
	})
	if err != nil {
		s.logger.Error("fetch drug types", zap.Error(err))
		return nil, err
	}
	return v.([]domain.DrugType), nil
}

// List filters the cached drug list by name and type and returns one page.
func (s *DrugService) List(ctx context.Context, q DrugQuery) (domain.Page[domain.Drug], error) {
	all, err := s.all(ctx)
	if err != nil {
		return domain.Page[domain.Drug]{}, err
	}
	filtered := filterDrugs(all, q.Search, q.DrugTypeNo)
	s.logger.Debug("drugs filtered",
		zap.String("search", q.Search),
		zap.String("type", q.DrugTypeNo),
		zap.Int("total", len(all)),
		zap.Int("matched", len(filtered)),
	)
	return domain.NewPage(filtered, q.Page, q.PageSize), nil
}

func (s *DrugService) all(ctx context.Context) ([]domain.Drug, error) {
	if drugs, ok := s.drugs.Get(drugListKey); ok {
		return drugs, nil
	}
	v, err := s.fill(ctx, drugListKey, func(ctx context.Context) (any, error) {
		var (
			dtos    []dto.DrugDTO
			types   []domain.DrugType
			typesOK bool
		)
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			dtos, err = apiclient.Get[[]dto.DrugDTO](egCtx, s.client, drugListEndpoint)
			return err
		})
		eg.Go(func() error {
			var err error
			if types, err = s.Types(egCtx); err != nil {
				// type names degrade to "Unknown"
				s.logger.Warn("drug list without type names", zap.Error(err))
				return nil
			}
			typesOK = true
			return nil
		})
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		drugs := mapping.DrugsToModels(dtos, mapping.DrugTypeNames(types))
		if typesOK {
			s.drugs.Add(drugListKey, drugs)
		}
		return drugs, nil
	})
	if err != nil {
		s.logger.Error("fetch drug list", zap.Error(err))
		return nil, err
	}
	return v.([]domain.Drug), nil
}

// fill runs fn once per key for all concurrent callers. fn gets a context that
// survives the cancellation of any single caller; each caller still stops
// waiting when its own ctx ends.
func (s *DrugService) fill(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.fills.DoChan(key, func() (any, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fillTimeout)
		defer cancel()
		return fn(fillCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func filterDrugs(drugs []domain.Drug, search, typeNo string) []domain.Drug {
	search = strings.ToLower(strings.TrimSpace(search))
	typeNo = strings.TrimSpace(typeNo)
	out := make([]domain.Drug, 0, len(drugs))
	for _, d := range drugs {
		if search != "" && !strings.Contains(strings.ToLower(d.DrugName), search) {
			continue
		}
		if typeNo != "" && d.DrugTypeNo != typeNo {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Get returns one drug with its type name resolved.
func (s *DrugService) Get(ctx context.Context, id string) (domain.Drug, error) {
	types, err := s.Types(ctx)
	if err != nil {
		s.logger.Warn("drug without type name", zap.String("drug_no", id), zap.Error(err))
	}
	d, err := apiclient.Get[dto.DrugDTO](ctx, s.client, fmt.Sprintf(drugGetEndpoint, id))
	if err != nil {
		return domain.Drug{}, err
	}
	return mapping.DrugToModel(d, mapping.DrugTypeNames(types)), nil
}

// Save creates the drug when it has no number yet, otherwise updates it. The
// cached list is dropped so the change shows up on the next read.
func (s *DrugService) Save(ctx context.Context, drug domain.Drug) (domain.Drug, error) {
	if err := requireField("drug_name", drug.DrugName); err != nil {
		return domain.Drug{}, err
	}
	defer s.drugs.Remove(drugListKey)

	if drug.DrugNo == "" {
		existing, err := apiclient.Get[[]dto.DrugDTO](ctx, s.client, drugListEndpoint)
		if err != nil {
			return domain.Drug{}, err
		}
		id := nextID(existing, func(d dto.DrugDTO) int { return d.DrugNo })
		payload := mapping.DrugToSaveDTO(drug, id)
		if _, err := apiclient.Post[dto.SaveDrugDTO, dto.SaveDrugDTO](ctx, s.client, drugCreateEndpoint, payload); err != nil {
			s.logger.Error("create drug", zap.Error(err))
			return domain.Drug{}, err
		}
		s.logger.Info("drug created", zap.Int("drug_no", id))
		drug.DrugNo = strconv.Itoa(id)
		return drug, nil
	}

	id, err := strconv.Atoi(drug.DrugNo)
	if err != nil {
		return domain.Drug{}, apperrors.NewValidationError("drug_no must be numeric", map[string]any{"drug_no": drug.DrugNo})
	}
	payload := mapping.DrugToSaveDTO(drug, id)
	if _, err := apiclient.Put[dto.SaveDrugDTO, dto.SaveDrugDTO](ctx, s.client, fmt.Sprintf(drugUpdateEndpoint, id), payload); err != nil {
		s.logger.Error("update drug", zap.Int("drug_no", id), zap.Error(err))
		return domain.Drug{}, err
	}
	s.logger.Info("drug updated", zap.Int("drug_no", id))
	return drug, nil
}

// Manufacturers lists the selectable manufacturers.
func (s *DrugService) Manufacturers() []string {
	return append([]string(nil), manufacturers...)
}
