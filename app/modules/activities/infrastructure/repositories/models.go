package activitiesdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Activity is a row of activities.
type Activity struct {
	bun.BaseModel `bun:"table:activities,alias:a"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description string     `bun:"description,notnull" json:"description"`
	Location    string     `bun:"location,notnull" json:"location"`
	StartsAt    time.Time  `bun:"starts_at,notnull" json:"starts_at"`
	EndsAt      *time.Time `bun:"ends_at" json:"ends_at,omitempty"`
	ImageURL    string     `bun:"image_url,nullzero" json:"image_url,omitempty"`
	CreatedBy   string     `bun:"created_by,notnull" json:"created_by"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
