package contestdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository using bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new contest repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateContest(ctx context.Context, db bun.IDB, contest *Contest) error {
	db = r.resolveDB(db)
	if contest.ID == uuid.Nil {
		contest.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(contest).Returning("created_at, updated_at").Exec(ctx); err != nil {
		return fmt.Errorf("contestdb.CreateContest: %w", err)
	}
	return nil
}

func (r *Impl) GetContest(ctx context.Context, db bun.IDB, id uuid.UUID) (*Contest, error) {
	db = r.resolveDB(db)
	contest := new(Contest)
	if err := db.NewSelect().Model(contest).Where("c.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("contestdb.GetContest: %w", err)
	}
	return contest, nil
}

func (r *Impl) LockContest(ctx context.Context, db bun.IDB, id uuid.UUID) (*Contest, error) {
	db = r.resolveDB(db)
	contest := new(Contest)
	if err := db.NewSelect().Model(contest).Where("c.id = ?", id).For("UPDATE").Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("contestdb.LockContest: %w", err)
	}
	return contest, nil
}

// ListContests returns every contest, newest first.
func (r *Impl) ListContests(ctx context.Context, db bun.IDB) ([]Contest, error) {
	db = r.resolveDB(db)
	var contests []Contest
	if err := db.NewSelect().Model(&contests).Order("c.submissions_open_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("contestdb.ListContests: %w", err)
	}
	return contests, nil
}

// UpdatePhase moves a contest from one phase to another. It returns ErrNoRowsAffected when the
// contest is no longer in from.
func (r *Impl) UpdatePhase(ctx context.Context, db bun.IDB, id uuid.UUID, from, to contestdomain.Phase, at time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Contest)(nil)).
		Set("phase = ?", to).
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Where("phase = ?", from).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("contestdb.UpdatePhase: %w", err)
	}
	return checkAffected(res, "UpdatePhase")
}

func (r *Impl) DeleteContest(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Contest)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("contestdb.DeleteContest: %w", err)
	}
	return checkAffected(res, "DeleteContest")
}

func (r *Impl) CreateEntry(ctx context.Context, db bun.IDB, entry *Entry) error {
	db = r.resolveDB(db)
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(entry).Returning("created_at").Exec(ctx); err != nil {
		return fmt.Errorf("contestdb.CreateEntry: %w", err)
	}
	return nil
}

func (r *Impl) GetEntry(ctx context.Context, db bun.IDB, contestID, entryID uuid.UUID) (*Entry, error) {
	db = r.resolveDB(db)
	entry := new(Entry)
	err := db.NewSelect().
		Model(entry).
		Where("e.id = ?", entryID).
		Where("e.contest_id = ?", contestID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("contestdb.GetEntry: %w", err)
	}
	return entry, nil
}

// ListEntries returns a contest's entries with vote tallies, in submission order.
func (r *Impl) ListEntries(ctx context.Context, db bun.IDB, contestID uuid.UUID) ([]EntryWithVotes, error) {
	db = r.resolveDB(db)
	var entries []EntryWithVotes
	err := db.NewSelect().
		Model(&entries).
		ColumnExpr("e.*").
		ColumnExpr("COUNT(v.id) AS votes").
		Join("LEFT JOIN contest_votes AS v ON v.entry_id = e.id").
		Where("e.contest_id = ?", contestID).
		Group("e.id").
		Order("e.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("contestdb.ListEntries: %w", err)
	}
	return entries, nil
}

func (r *Impl) CountEntriesByUser(ctx context.Context, db bun.IDB, contestID uuid.UUID, discordID string) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().
		Model((*Entry)(nil)).
		Where("contest_id = ?", contestID).
		Where("discord_id = ?", discordID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("contestdb.CountEntriesByUser: %w", err)
	}
	return n, nil
}

func (r *Impl) DeleteEntry(ctx context.Context, db bun.IDB, contestID, entryID uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Entry)(nil)).
		Where("id = ?", entryID).
		Where("contest_id = ?", contestID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("contestdb.DeleteEntry: %w", err)
	}
	return checkAffected(res, "DeleteEntry")
}

func (r *Impl) CreateVote(ctx context.Context, db bun.IDB, vote *Vote) error {
	db = r.resolveDB(db)
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(vote).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		return fmt.Errorf("contestdb.CreateVote: %w", err)
	}
	return nil
}
