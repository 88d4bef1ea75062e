package whitelistdomain

import "slices"

// Status is the review state of a whitelist request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusRevoked  Status = "revoked"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusRevoked}

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusRevoked},
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// IsValid checks if the status is one of the defined statuses.
func (s Status) IsValid() bool {
	return slices.Contains(AllStatuses, s)
}

func (s Status) String() string {
	return string(s)
}

// Form is what an applicant fills in.
type Form struct {
	CharacterName string `json:"character_name" validate:"required,min=3,max=64"`
	CharacterAge  int    `json:"character_age" validate:"required,min=16,max=100"`
	RPExperience  string `json:"rp_experience" validate:"required,max=2000"`
	Motivation    string `json:"motivation" validate:"required,min=50,max=2000"`
	Backstory     string `json:"backstory" validate:"required,min=100,max=5000"`
}

// Stats counts requests per status.
type Stats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Revoked  int `json:"revoked"`
	Total    int `json:"total"`
}

// Add records n requests with status s.
func (st *Stats) Add(s Status, n int) {
	switch s {
	case StatusPending:
		st.Pending += n
	case StatusApproved:
		st.Approved += n
	case StatusRejected:
		st.Rejected += n
	case StatusRevoked:
		st.Revoked += n
	default:
		return
	}
	st.Total += n
}
