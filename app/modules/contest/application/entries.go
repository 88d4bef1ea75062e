package contestservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	contestdb "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type entryResult = results.OperationResult[*EntryView, error]

// SubmitEntry stores an image entry. The contest row stays locked while the file is written so
// the per-user limit holds under concurrent uploads.
func (s *ContestService) SubmitEntry(ctx context.Context, principal *authdomain.Principal, contestID uuid.UUID, upload EntryUpload) (*EntryView, error) {
	var saved string

	view, err := withTx(s, ctx, "SubmitEntry", contestID.String(), func(ctx context.Context, db bun.IDB) (entryResult, error) {
		if !s.allowed(principal, authdomain.PermContestParticipate) {
			return results.FailureResult[*EntryView, error](ErrNotParticipant), nil
		}
		if upload.Size > s.maxUploadBytes {
			return results.FailureResult[*EntryView, error](ErrImageTooLarge), nil
		}

		head := make([]byte, contestdomain.SniffLength)
		n, err := io.ReadFull(upload.Content, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return entryResult{}, err
		}
		head = head[:n]
		image, err := contestdomain.DetectImage(head)
		if err != nil {
			return results.FailureResult[*EntryView, error](err), nil
		}

		contest, err := s.repo.LockContest(ctx, db, contestID)
		if err != nil {
			if errors.Is(err, contestdb.ErrNotFound) {
				return results.FailureResult[*EntryView, error](ErrNotFound), nil
			}
			return entryResult{}, err
		}
		if contest.Phase != contestdomain.PhaseSubmissions {
			return results.FailureResult[*EntryView, error](ErrSubmissionsClosed), nil
		}

		count, err := s.repo.CountEntriesByUser(ctx, db, contestID, principal.DiscordID)
		if err != nil {
			return entryResult{}, err
		}
		if count >= contest.MaxEntriesPerUser {
			return results.FailureResult[*EntryView, error](ErrEntryLimit), nil
		}

		entryID := uuid.New()
		name := path.Join(contestID.String(), entryID.String()+image.Ext)
		content := io.LimitReader(io.MultiReader(bytes.NewReader(head), upload.Content), s.maxUploadBytes+1)
		size, err := s.store.Save(name, content)
		if err != nil {
			return entryResult{}, err
		}
		saved = name
		if size > s.maxUploadBytes {
			return results.FailureResult[*EntryView, error](ErrImageTooLarge), nil
		}

		entry := &contestdb.Entry{
			ID:          entryID,
			ContestID:   contestID,
			UserID:      principal.UserID,
			DiscordID:   principal.DiscordID,
			Caption:     strings.TrimSpace(upload.Caption),
			FileName:    name,
			ContentType: image.ContentType,
			SizeBytes:   size,
			CreatedAt:   s.now().UTC(),
		}
		if err := s.repo.CreateEntry(ctx, db, entry); err != nil {
			return entryResult{}, err
		}

		view := entryView(contestdb.EntryWithVotes{Entry: *entry}, false)
		return results.SuccessResult[*EntryView, error](&view), nil
	})

	if err != nil && saved != "" {
		if rmErr := s.store.Remove(saved); rmErr != nil {
			s.runner.Logger.WarnContext(ctx, "Failed to remove orphaned upload",
				attr.String("file", saved),
				attr.Error(rmErr),
			)
		}
	}
	if err != nil {
		return nil, err
	}

	s.runner.Logger.InfoContext(ctx, "Contest entry submitted",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("contest_id", contestID),
		attr.UUID("entry_id", view.ID),
		attr.DiscordID("discord_id", principal.DiscordID),
	)
	return view, nil
}

// OpenEntryImage opens an entry's stored image.
func (s *ContestService) OpenEntryImage(ctx context.Context, contestID, entryID uuid.UUID) (*EntryImage, error) {
	entry, err := s.repo.GetEntry(ctx, nil, contestID, entryID)
	if err != nil {
		if errors.Is(err, contestdb.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	f, err := s.store.Open(entry.FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.runner.Logger.WarnContext(ctx, "Entry image missing on disk",
				attr.UUID("entry_id", entryID),
				attr.String("file", entry.FileName),
			)
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &EntryImage{Entry: entry, Content: f}, nil
}

// Vote records the principal's single vote in a contest.
func (s *ContestService) Vote(ctx context.Context, principal *authdomain.Principal, contestID, entryID uuid.UUID) error {
	_, err := withTx(s, ctx, "Vote", contestID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		fail := func(err error) (results.OperationResult[bool, error], error) {
			return results.FailureResult[bool, error](err), nil
		}
		if !s.allowed(principal, authdomain.PermContestParticipate) {
			return fail(ErrNotParticipant)
		}

		contest, err := s.repo.GetContest(ctx, db, contestID)
		if err != nil {
			if errors.Is(err, contestdb.ErrNotFound) {
				return fail(ErrNotFound)
			}
			return results.OperationResult[bool, error]{}, err
		}
		if contest.Phase != contestdomain.PhaseVoting {
			return fail(ErrVotingClosed)
		}

		entry, err := s.repo.GetEntry(ctx, db, contestID, entryID)
		if err != nil {
			if errors.Is(err, contestdb.ErrNotFound) {
				return fail(ErrEntryNotFound)
			}
			return results.OperationResult[bool, error]{}, err
		}
		if entry.DiscordID == principal.DiscordID {
			return fail(ErrOwnEntry)
		}

		err = s.repo.CreateVote(ctx, db, &contestdb.Vote{
			ContestID:      contestID,
			EntryID:        entryID,
			VoterDiscordID: principal.DiscordID,
			CreatedAt:      s.now().UTC(),
		})
		if err != nil {
			if errors.Is(err, contestdb.ErrDuplicateVote) {
				return fail(ErrAlreadyVoted)
			}
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
	return err
}

// DeleteEntry removes an entry and its image.
func (s *ContestService) DeleteEntry(ctx context.Context, actorDiscordID string, contestID, entryID uuid.UUID) error {
	entry, err := withTx(s, ctx, "DeleteEntry", entryID.String(), func(ctx context.Context, db bun.IDB) (results.OperationResult[*contestdb.Entry, error], error) {
		entry, err := s.repo.GetEntry(ctx, db, contestID, entryID)
		if err != nil {
			if errors.Is(err, contestdb.ErrNotFound) {
				return results.FailureResult[*contestdb.Entry, error](ErrEntryNotFound), nil
			}
			return results.OperationResult[*contestdb.Entry, error]{}, err
		}
		if err := s.repo.DeleteEntry(ctx, db, contestID, entryID); err != nil {
			if errors.Is(err, contestdb.ErrNoRowsAffected) {
				return results.FailureResult[*contestdb.Entry, error](ErrEntryNotFound), nil
			}
			return results.OperationResult[*contestdb.Entry, error]{}, err
		}
		return results.SuccessResult[*contestdb.Entry, error](entry), nil
	})
	if err != nil {
		return err
	}

	if err := s.store.Remove(entry.FileName); err != nil {
		s.runner.Logger.WarnContext(ctx, "Failed to remove entry image",
			attr.UUID("entry_id", entryID),
			attr.String("file", entry.FileName),
			attr.Error(err),
		)
	}
	s.runner.Logger.InfoContext(ctx, "Contest entry removed",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("contest_id", contestID),
		attr.UUID("entry_id", entryID),
		attr.DiscordID("owner_discord_id", entry.DiscordID),
		attr.DiscordID("actor_discord_id", actorDiscordID),
	)
	return nil
}
