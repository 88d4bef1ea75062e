package contestservice

import "errors"

var (
	ErrNotFound          = errors.New("contest not found")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrInvalidSchedule   = errors.New("submissions must open before voting, voting before the close, and the close must be in the future")
	ErrUnknownPhase      = errors.New("unknown contest phase")
	ErrPhaseReached      = errors.New("contest has already reached that phase")
	ErrNotParticipant    = errors.New("you are not allowed to take part in contests")
	ErrSubmissionsClosed = errors.New("contest is not accepting entries")
	ErrVotingClosed      = errors.New("contest is not open for voting")
	ErrEntryLimit        = errors.New("entry limit reached for this contest")
	ErrImageTooLarge     = errors.New("image is too large")
	ErrOwnEntry          = errors.New("you cannot vote for your own entry")
	ErrAlreadyVoted      = errors.New("you have already voted in this contest")
	ErrResultsHidden     = errors.New("results are published when the contest closes")
)
