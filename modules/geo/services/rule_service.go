package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
)

type RuleService struct {
	rules arearule.Repository
	areas *AreaService
}

func NewRuleService(rules arearule.Repository, areas *AreaService) *RuleService {
	return &RuleService{rules: rules, areas: areas}
}

func (s *RuleService) GetByUser(ctx context.Context, userID uuid.UUID) ([]arearule.Rule, error) {
	return s.rules.GetByUser(ctx, userID)
}

// Create adds a rule for the user. The ruled area must exist; a second
// rule on the same (user, area) pair fails with arearule.ErrDuplicate.
func (s *RuleService) Create(ctx context.Context, tenantID, userID uuid.UUID, dto *arearule.CreateDTO) (arearule.Rule, error) {
	areaID := dto.AreaID()
	if _, err := s.areas.GetByID(ctx, areaID); err != nil {
		return arearule.Rule{}, err
	}
	return s.rules.Create(ctx, arearule.New(tenantID, userID, areaID, arearule.Type(dto.RuleType)))
}

func (s *RuleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.rules.Delete(ctx, id)
}

// IsAuthorized resolves whether userID may scope to areaID under the
// current snapshot and rule set.
func (s *RuleService) IsAuthorized(ctx context.Context, resolver *AccessResolver, userID, areaID uuid.UUID) (bool, error) {
	tree, err := s.areas.Tree(ctx)
	if err != nil {
		return false, err
	}
	rules, err := s.rules.GetByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return resolver.IsAuthorized(rules, tree, areaID), nil
}
