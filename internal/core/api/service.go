// Package api provides the gRPC rule service for coaching clients.
package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/coachkit/rulekeeper/internal/core/config"
	"github.com/coachkit/rulekeeper/internal/core/db"
	"github.com/coachkit/rulekeeper/internal/rules"
	"github.com/coachkit/rulekeeper/internal/types"
)

// RuleStore is the persistence the service needs. Implemented by *db.RuleStore.
type RuleStore interface {
	Create(ctx context.Context, coach types.CoachID, rule types.Rule) (*db.StoredRule, error)
	Update(ctx context.Context, coach types.CoachID, rule types.Rule) (*db.StoredRule, error)
	Get(ctx context.Context, coach types.CoachID, id types.RuleID) (*db.StoredRule, error)
	List(ctx context.Context, coach types.CoachID, category types.Category, includeInactive bool) ([]*db.StoredRule, error)
	ListActive(ctx context.Context, coach types.CoachID, category types.Category) ([]types.Rule, error)
	SetActive(ctx context.Context, coach types.CoachID, id types.RuleID, active bool) error
	Delete(ctx context.Context, coach types.CoachID, id types.RuleID) error
	Count(ctx context.Context, coach types.CoachID) (int, error)
}

// RuleService implements RuleServiceServer.
// Thin orchestration layer delegating to the rules engine and the store.
type RuleService struct {
	store        RuleStore
	rulesEngine  *rules.Engine
	cfg          *config.RuleAPIConfig
	logger       zerolog.Logger
	validate     *validator.Validate
	coachMutexes map[types.CoachID]*sync.Mutex
	mutexLock    sync.Mutex
}

var _ RuleServiceServer = (*RuleService)(nil)

// NewRuleService creates service instance with dependencies.
func NewRuleService(store RuleStore, rulesEngine *rules.Engine, cfg *config.RuleAPIConfig, logger zerolog.Logger) (*RuleService, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if rulesEngine == nil {
		return nil, fmt.Errorf("rulesEngine cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}

	return &RuleService{
		store:        store,
		rulesEngine:  rulesEngine,
		cfg:          cfg,
		logger:       logger.With().Str("component", "api").Logger(),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		coachMutexes: make(map[types.CoachID]*sync.Mutex),
	}, nil
}

// getCoachMutex returns mutex for given coach, creating if not exists.
// Check-then-write sequences hold it so two saves cannot both pass the
// conflict check against a rule set neither of them sees.
// The map grows by one entry per coach that ever wrote a rule.
func (s *RuleService) getCoachMutex(coach types.CoachID) *sync.Mutex {
	s.mutexLock.Lock()
	defer s.mutexLock.Unlock()

	if _, ok := s.coachMutexes[coach]; !ok {
		s.coachMutexes[coach] = &sync.Mutex{}
	}
	return s.coachMutexes[coach]
}
