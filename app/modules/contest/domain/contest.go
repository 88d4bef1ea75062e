package contestdomain

import (
	"slices"
	"time"
)

// Phase is the lifecycle stage of a contest.
type Phase string

const (
	PhaseDraft       Phase = "draft"
	PhaseSubmissions Phase = "submissions"
	PhaseVoting      Phase = "voting"
	PhaseClosed      Phase = "closed"
)

// AllPhases lists the phases in lifecycle order.
var AllPhases = []Phase{PhaseDraft, PhaseSubmissions, PhaseVoting, PhaseClosed}

const (
	DefaultMaxEntriesPerUser = 1
	MaxCaptionLength         = 280
)

// IsValid checks if the phase is one of the defined phases.
func (p Phase) IsValid() bool {
	return slices.Contains(AllPhases, p)
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Reached reports whether a contest in p has already been in target.
func (p Phase) Reached(target Phase) bool {
	return slices.Index(AllPhases, p) >= slices.Index(AllPhases, target)
}

// CanAdvanceTo reports whether target is later than p. Phases only move forward, but may skip.
func (p Phase) CanAdvanceTo(target Phase) bool {
	return p.IsValid() && target.IsValid() && !p.Reached(target)
}

// Input is a new contest as submitted by staff.
type Input struct {
	Title             string    `json:"title" validate:"required,max=120"`
	Description       string    `json:"description" validate:"max=5000"`
	SubmissionsOpenAt time.Time `json:"submissions_open_at" validate:"required"`
	VotingOpensAt     time.Time `json:"voting_opens_at" validate:"required"`
	ClosesAt          time.Time `json:"closes_at" validate:"required"`
	MaxEntriesPerUser int       `json:"max_entries_per_user" validate:"omitempty,min=1,max=10"`
}

// ScheduledPhase is a phase change due at a point in time.
type ScheduledPhase struct {
	Phase Phase
	At    time.Time
}

// Schedule returns the timed phase changes for a contest, in order.
func Schedule(submissionsOpenAt, votingOpensAt, closesAt time.Time) []ScheduledPhase {
	return []ScheduledPhase{
		{Phase: PhaseSubmissions, At: submissionsOpenAt},
		{Phase: PhaseVoting, At: votingOpensAt},
		{Phase: PhaseClosed, At: closesAt},
	}
}

// ScheduleIsOrdered reports whether submissions open before voting, voting opens before the close
// and the close is still ahead of now.
func ScheduleIsOrdered(submissionsOpenAt, votingOpensAt, closesAt, now time.Time) bool {
	return submissionsOpenAt.Before(votingOpensAt) &&
		votingOpensAt.Before(closesAt) &&
		closesAt.After(now)
}

// CompareStanding orders entries by votes, most first, with earlier submissions winning ties.
func CompareStanding(aVotes int, aSubmitted time.Time, bVotes int, bSubmitted time.Time) int {
	if aVotes != bVotes {
		if aVotes > bVotes {
			return -1
		}
		return 1
	}
	return aSubmitted.Compare(bSubmitted)
}
