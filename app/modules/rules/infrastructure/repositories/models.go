package rulesdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Rule is a row of rules.
type Rule struct {
	bun.BaseModel `bun:"table:rules,alias:r"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Category  string    `bun:"category,notnull" json:"category"`
	Title     string    `bun:"title,notnull" json:"title"`
	Body      string    `bun:"body,notnull" json:"body"`
	Position  int       `bun:"position,notnull" json:"position"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	UpdatedBy string    `bun:"updated_by,nullzero" json:"updated_by,omitempty"`
}
