package rulesdomain

// Input is the editable part of a rule.
type Input struct {
	Category string `json:"category" validate:"required,max=64"`
	Title    string `json:"title" validate:"required,max=200"`
	Body     string `json:"body" validate:"required,max=10000"`
}

// Reorder sets the order of every rule in one category.
type Reorder struct {
	Category string   `json:"category" validate:"required,max=64"`
	IDs      []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// Change actions carried on rules.changed.v1.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionReordered = "reordered"
)
