package userservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/fivem-portal/app/eventbus"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/operation"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// UserService implements Service.
type UserService struct {
	repo      userdb.Repository
	guild     guildservice.Service
	publisher message.Publisher
	runner    *operation.Runner
	now       func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(
	repo userdb.Repository,
	guild guildservice.Service,
	publisher message.Publisher,
	runner *operation.Runner,
) *UserService {
	return &UserService{
		repo:      repo,
		guild:     guild,
		publisher: publisher,
		runner:    runner,
		now:       time.Now,
	}
}

// ListUsers returns a page of portal users.
func (s *UserService) ListUsers(ctx context.Context, filter userdb.ListFilter) (*UserPage, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "ListUsers", filter.Search, func(ctx context.Context) (results.OperationResult[*UserPage, error], error) {
		users, total, err := s.repo.List(ctx, nil, filter)
		if err != nil {
			return results.OperationResult[*UserPage, error]{}, err
		}
		if users == nil {
			users = []userdb.User{}
		}
		return results.SuccessResult[*UserPage, error](&UserPage{Users: users, Total: total}), nil
	})
	return operation.Unwrap(result, err)
}

// GetUser returns a portal user with live Discord roles. A Discord outage leaves
// Membership nil instead of failing the lookup.
func (s *UserService) GetUser(ctx context.Context, discordID string) (*UserDetail, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "GetUser", discordID, func(ctx context.Context) (results.OperationResult[*UserDetail, error], error) {
		user, err := s.repo.GetByDiscordID(ctx, nil, discordID)
		if err != nil {
			if errors.Is(err, userdb.ErrNotFound) {
				return results.FailureResult[*UserDetail, error](ErrUserNotFound), nil
			}
			return results.OperationResult[*UserDetail, error]{}, err
		}

		detail := &UserDetail{User: user}

		membership, err := s.guild.MemberRoles(ctx, discordID)
		if err != nil {
			s.runner.Logger.WarnContext(ctx, "Could not load Discord roles for user",
				attr.ExtractCorrelationID(ctx),
				attr.DiscordID("discord_id", discordID),
				attr.Error(err),
			)
		} else {
			detail.Membership = membership
		}

		entry, err := s.repo.GetActiveBlacklistEntry(ctx, nil, discordID)
		switch {
		case err == nil:
			detail.Blacklist = entry
		case !errors.Is(err, userdb.ErrNotFound):
			return results.OperationResult[*UserDetail, error]{}, err
		}

		return results.SuccessResult[*UserDetail, error](detail), nil
	})
	return operation.Unwrap(result, err)
}

// PruneSessions deletes sessions that have expired or were revoked.
func (s *UserService) PruneSessions(ctx context.Context) (int64, error) {
	result, err := operation.WithTelemetry(s.runner, ctx, "PruneSessions", "", func(ctx context.Context) (results.OperationResult[int64, error], error) {
		return operation.RunInTx(s.runner, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[int64, error], error) {
			n, err := s.repo.DeleteExpiredSessions(ctx, db, s.now())
			if err != nil {
				return results.OperationResult[int64, error]{}, err
			}
			return results.SuccessResult[int64, error](n), nil
		})
	})
	return operation.Unwrap(result, err)
}

// publish emits an event after the state change has committed. Failures are logged only:
// the change itself already happened.
func (s *UserService) publish(ctx context.Context, topic string, payload any) {
	if err := eventbus.PublishEvent(ctx, s.publisher, topic, payload); err != nil {
		s.runner.Logger.ErrorContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}

func wrapGuildError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
