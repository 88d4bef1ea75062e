package rulesservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	rulesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/domain"
	rulesdb "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ruleResult = results.OperationResult[*rulesdb.Rule, error]

// RulesService implements Service.
type RulesService struct {
	repo      rulesdb.Repository
	publisher message.Publisher
	runner    *operation.Runner
	now       func() time.Time
}

// NewRulesService creates a new RulesService.
func NewRulesService(repo rulesdb.Repository, publisher message.Publisher, runner *operation.Runner) *RulesService {
	return &RulesService{
		repo:      repo,
		publisher: publisher,
		runner:    runner,
		now:       time.Now,
	}
}

// List returns the whole rulebook ordered by category then position.
func (s *RulesService) List(ctx context.Context) ([]rulesdb.Rule, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "List", "", func(ctx context.Context) (results.OperationResult[[]rulesdb.Rule, error], error) {
		rules, err := s.repo.List(ctx, nil)
		if err != nil {
			return results.OperationResult[[]rulesdb.Rule, error]{}, err
		}
		if rules == nil {
			rules = []rulesdb.Rule{}
		}
		return results.SuccessResult[[]rulesdb.Rule, error](rules), nil
	})
	return operation.Unwrap(result, err)
}

// Create appends a rule to the end of its category.
func (s *RulesService) Create(ctx context.Context, actorDiscordID string, input rulesdomain.Input) (*rulesdb.Rule, error) {
	input = normalize(input)

	result, err := operation.WithTelemetry(s.runner, ctx, "Create", input.Category, func(ctx context.Context) (ruleResult, error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (ruleResult, error) {
			pos, err := s.repo.NextPosition(ctx, db, input.Category)
			if err != nil {
				return ruleResult{}, err
			}

			now := s.now().UTC()
			rule := &rulesdb.Rule{
				Category:  input.Category,
				Title:     input.Title,
				Body:      input.Body,
				Position:  pos,
				CreatedAt: now,
				UpdatedAt: now,
				UpdatedBy: actorDiscordID,
			}
			if err := s.repo.Create(ctx, db, rule); err != nil {
				return ruleResult{}, err
			}
			return results.SuccessResult[*rulesdb.Rule, error](rule), nil
		})
	})
	rule, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.publishChange(ctx, rulesdomain.ActionCreated, rule.ID.String(), rule.Category, actorDiscordID)
	return rule, nil
}

// Update edits a rule. Moving it to another category appends it there.
func (s *RulesService) Update(ctx context.Context, actorDiscordID string, id uuid.UUID, input rulesdomain.Input) (*rulesdb.Rule, error) {
	input = normalize(input)

	result, err := operation.WithTelemetry(s.runner, ctx, "Update", id.String(), func(ctx context.Context) (ruleResult, error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (ruleResult, error) {
			rule, err := s.repo.GetByID(ctx, db, id)
			if err != nil {
				if errors.Is(err, rulesdb.ErrNotFound) {
					return results.FailureResult[*rulesdb.Rule, error](ErrNotFound), nil
				}
				return ruleResult{}, err
			}

			if rule.Category != input.Category {
				pos, err := s.repo.NextPosition(ctx, db, input.Category)
				if err != nil {
					return ruleResult{}, err
				}
				rule.Position = pos
			}
			rule.Category = input.Category
			rule.Title = input.Title
			rule.Body = input.Body
			rule.UpdatedAt = s.now().UTC()
			rule.UpdatedBy = actorDiscordID

			if err := s.repo.Update(ctx, db, rule); err != nil {
				if errors.Is(err, rulesdb.ErrNoRowsAffected) {
					return results.FailureResult[*rulesdb.Rule, error](ErrNotFound), nil
				}
				return ruleResult{}, err
			}
			return results.SuccessResult[*rulesdb.Rule, error](rule), nil
		})
	})
	rule, err := operation.Unwrap(result, err)
	if err != nil {
		return nil, err
	}

	s.publishChange(ctx, rulesdomain.ActionUpdated, rule.ID.String(), rule.Category, actorDiscordID)
	return rule, nil
}

func (s *RulesService) Delete(ctx context.Context, actorDiscordID string, id uuid.UUID) error {
	result, err := operation.WithTelemetry(s.runner, ctx, "Delete", id.String(), func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if err := s.repo.Delete(ctx, nil, id); err != nil {
			if errors.Is(err, rulesdb.ErrNoRowsAffected) {
				return results.FailureResult[bool, error](ErrNotFound), nil
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
	if _, err := operation.Unwrap(result, err); err != nil {
		return err
	}

	s.publishChange(ctx, rulesdomain.ActionDeleted, id.String(), "", actorDiscordID)
	return nil
}

// Reorder sets position = index for each id. ids must be exactly the category's current rules.
func (s *RulesService) Reorder(ctx context.Context, actorDiscordID, category string, ids []uuid.UUID) error {
	category = strings.TrimSpace(category)

	result, err := operation.WithTelemetry(s.runner, ctx, "Reorder", category, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
			current, err := s.repo.CategoryIDs(ctx, db, category)
			if err != nil {
				return results.OperationResult[bool, error]{}, err
			}
			if !sameSet(current, ids) {
				return results.FailureResult[bool, error](ErrReorderMismatch), nil
			}

			now := s.now().UTC()
			for i, id := range ids {
				if err := s.repo.SetPosition(ctx, db, id, i, actorDiscordID, now); err != nil {
					return results.OperationResult[bool, error]{}, err
				}
			}
			return results.SuccessResult[bool, error](true), nil
		})
	})
	if _, err := operation.Unwrap(result, err); err != nil {
		return err
	}

	s.publishChange(ctx, rulesdomain.ActionReordered, "", category, actorDiscordID)
	return nil
}

func (s *RulesService) publishChange(ctx context.Context, action, ruleID, category, actor string) {
	payload := eventbus.RulesChangedPayload{
		Action:         action,
		RuleID:         ruleID,
		Category:       category,
		ActorDiscordID: actor,
		OccurredAt:     s.now().UTC(),
	}
	if err := eventbus.PublishEvent(ctx, s.publisher, eventbus.RulesChangedV1, payload); err != nil {
		s.runner.Logger.ErrorContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", eventbus.RulesChangedV1),
			attr.Error(err),
		)
	}
}

func normalize(in rulesdomain.Input) rulesdomain.Input {
	return rulesdomain.Input{
		Category: strings.TrimSpace(in.Category),
		Title:    strings.TrimSpace(in.Title),
		Body:     strings.TrimSpace(in.Body),
	}
}

// sameSet reports whether got lists exactly the ids in want, each once.
func sameSet(want, got []uuid.UUID) bool {
	if len(want) != len(got) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(want))
	for _, id := range want {
		seen[id] = false
	}
	for _, id := range got {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}
