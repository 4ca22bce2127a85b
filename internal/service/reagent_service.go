package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util"
)

// The API has no reagent endpoints yet; the portal keeps the catalogue itself,
// seeded with the kits the laboratory stocks.
var seedReagents = []domain.Reagent{
	{ReagentNo: "1", ReagentName: "Blood Glucose Test Strips", Description: "Used for measuring blood glucose levels", ReorderLevel: "100"},
	{ReagentNo: "2", ReagentName: "COVID-19 Test Kit", Description: "Rapid antigen test kit", ReorderLevel: "50"},
	{ReagentNo: "3", ReagentName: "HIV Test Kit", Description: "4th generation combo test", ReorderLevel: "75"},
}

// ReagentService keeps the laboratory reagent catalogue in process memory.
// Entries are shared by every session and lost on restart.
type ReagentService struct {
	logger *zap.Logger

	mu       sync.RWMutex
	reagents []domain.Reagent
}

// NewReagentService creates the service with the seed catalogue.
func NewReagentService(logger *zap.Logger) *ReagentService {
	return &ReagentService{
		logger:   logger.Named("reagents"),
		reagents: append([]domain.Reagent(nil), seedReagents...),
	}
}

// List returns a copy of every reagent.
func (s *ReagentService) List(ctx context.Context) ([]domain.Reagent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Reagent(nil), s.reagents...), nil
}

// Get returns the reagent with id.
func (s *ReagentService) Get(ctx context.Context, id string) (domain.Reagent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.reagents[i], nil
	}
	return domain.Reagent{}, apperrors.NewNotFound("reagent", map[string]any{"reagent_no": id})
}

// Save creates the reagent when it has no number yet, otherwise replaces the
// existing entry.
func (s *ReagentService) Save(ctx context.Context, reagent domain.Reagent) (domain.Reagent, error) {
	reagent.ReagentName = strings.TrimSpace(reagent.ReagentName)
	if err := validated(reagent); err != nil {
		return domain.Reagent{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if reagent.ReagentNo == "" {
		reagent.ReagentNo = strconv.Itoa(nextID(s.reagents, func(r domain.Reagent) int { return atoiOrZero(r.ReagentNo) }))
		s.reagents = append(s.reagents, reagent)
		s.logger.Info("reagent created", zap.String("reagent_no", reagent.ReagentNo))
		return reagent, nil
	}

	i := s.index(reagent.ReagentNo)
	if i < 0 {
		return domain.Reagent{}, apperrors.NewNotFound("reagent", map[string]any{"reagent_no": reagent.ReagentNo})
	}
	s.reagents[i] = reagent
	s.logger.Info("reagent updated", zap.String("reagent_no", reagent.ReagentNo))
	return reagent, nil
}

func (s *ReagentService) index(id string) int {
	for i, r := range s.reagents {
		if r.ReagentNo == id {
			return i
		}
	}
	return -1
}
