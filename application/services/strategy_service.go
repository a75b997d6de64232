package services

import (
	"context"

	"go.uber.org/zap"

	"mtp-backend/application/ports"
	"mtp-backend/domain"
	apperrors "mtp-backend/pkg/errors"
	"mtp-backend/pkg/utils"
)

// StrategyService owns strategy CRUD and response shaping
type StrategyService struct {
	store  ports.Store
	events ports.EventPublisher
	logger *zap.Logger
}

// NewStrategyService creates a strategy service
func NewStrategyService(store ports.Store, events ports.EventPublisher, logger *zap.Logger) *StrategyService {
	return &StrategyService{store: store, events: events, logger: logger}
}

// StrategyListResult is one page of strategies
type StrategyListResult struct {
	Strategies []domain.Strategy `json:"strategies"`
	LastKey    string            `json:"lastKey,omitempty"`
}

// Create persists a new strategy and returns its generated id
func (s *StrategyService) Create(ctx context.Context, userID string, fields map[string]interface{}) (string, error) {
	strategyID := utils.NewID("strategy")
	item := domain.BuildStrategyItem(userID, strategyID, fields)

	if err := s.store.PutItemIfAbsent(ctx, item); err != nil {
		return "", err
	}

	s.logger.Info("Strategy created", zap.String("userID", userID), zap.String("strategyID", strategyID))
	s.events.Publish(ctx, "StrategyCreated", map[string]string{"userId": userID, "strategyId": strategyID})
	return strategyID, nil
}

// Get fetches one strategy scoped to the caller
func (s *StrategyService) Get(ctx context.Context, userID, strategyID string) (*domain.Strategy, error) {
	item, err := s.store.GetItem(ctx, domain.UserPK(userID), domain.StrategySK(strategyID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NewNotFoundError("Strategy")
	}

	strategy := domain.StrategyFromItem(item)
	return &strategy, nil
}

// List pages through the caller's strategies, newest first
func (s *StrategyService) List(ctx context.Context, userID string, limit int32, lastKey string) (*StrategyListResult, error) {
	page, err := s.store.QueryGSI1(ctx, domain.StrategyGSI1PK(userID), limit, lastKey)
	if err != nil {
		return nil, err
	}

	strategies := make([]domain.Strategy, 0, len(page.Items))
	for _, item := range page.Items {
		strategies = append(strategies, domain.StrategyFromItem(item))
	}
	return &StrategyListResult{Strategies: strategies, LastKey: page.LastKey}, nil
}

// Update applies a partial update. A structured dsl value is serialized
// to its storage representation before the write.
func (s *StrategyService) Update(ctx context.Context, userID, strategyID string, fields map[string]interface{}) (*domain.Strategy, error) {
	pk, sk := domain.UserPK(userID), domain.StrategySK(strategyID)

	existing, err := s.store.GetItem(ctx, pk, sk)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("Strategy")
	}

	set := domain.FilterStrategyFields(fields)
	set["updatedAt"] = utils.NowISO()

	updated, err := s.store.UpdateItem(ctx, pk, sk, set)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "StrategyUpdated", map[string]string{"userId": userID, "strategyId": strategyID})
	strategy := domain.StrategyFromItem(updated)
	return &strategy, nil
}

// Delete removes a strategy after confirming it exists
func (s *StrategyService) Delete(ctx context.Context, userID, strategyID string) error {
	pk, sk := domain.UserPK(userID), domain.StrategySK(strategyID)

	existing, err := s.store.GetItem(ctx, pk, sk)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewNotFoundError("Strategy")
	}

	if err := s.store.DeleteItem(ctx, pk, sk); err != nil {
		return err
	}

	s.events.Publish(ctx, "StrategyDeleted", map[string]string{"userId": userID, "strategyId": strategyID})
	return nil
}
