package policies

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRules = errors.New("refund rules must be non-empty with percentages in [0, 100]")

type Service interface {
	Create(ctx context.Context, req CreatePolicyRequest) (*RefundPolicy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RefundPolicy, error)
	GetAll(ctx context.Context) ([]RefundPolicy, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePolicyRequest) (*RefundPolicy, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RefundPercentage(ctx context.Context, policyID uuid.UUID, departureDate, cancelledAt time.Time) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreatePolicyRequest) (*RefundPolicy, error) {
	rules, err := validateRules(req.Rules)
	if err != nil {
		return nil, err
	}

	policy := &RefundPolicy{
		Name:  req.Name,
		Rules: rules,
	}
	if err := s.repo.Create(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*RefundPolicy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetAll(ctx context.Context) ([]RefundPolicy, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdatePolicyRequest) (*RefundPolicy, error) {
	policy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		policy.Name = *req.Name
	}
	if req.Rules != nil {
		rules, err := validateRules(req.Rules)
		if err != nil {
			return nil, err
		}
		policy.Rules = rules
	}

	if err := s.repo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// RefundPercentage evaluates the policy against the cancellation moment
func (s *service) RefundPercentage(ctx context.Context, policyID uuid.UUID, departureDate, cancelledAt time.Time) (int, error) {
	policy, err := s.repo.GetByID(ctx, policyID)
	if err != nil {
		return 0, err
	}
	return Evaluate(policy.Rules, departureDate, cancelledAt), nil
}

// validateRules checks bounds and returns the rules sorted by DaysBefore descending
func validateRules(rules []RefundRule) (RuleSet, error) {
	if len(rules) == 0 {
		return nil, ErrInvalidRules
	}
	for _, rule := range rules {
		if rule.RefundPct < 0 || rule.RefundPct > 100 || rule.DaysBefore < 0 {
			return nil, ErrInvalidRules
		}
	}
	sorted := make(RuleSet, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DaysBefore > sorted[j].DaysBefore
	})
	return sorted, nil
}
