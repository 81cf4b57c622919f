package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription tiers stored on a CV record.
const (
	TierFree = "free"
	TierPro  = "pro"
)

// CV is a stored curriculum vitae. The document body is schema-validated
// JSON kept as a JSONB column; Title is denormalized from it for listings.
type CV struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	Title         string                 `json:"title"`
	Lang          string                 `json:"lang"`
	Document      map[string]interface{} `json:"document"`
	Tier          string                 `json:"tier"`
	TierExpiresAt *time.Time             `json:"tier_expires_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ProActive reports whether the record currently has a paid subscription.
func (c *CV) ProActive(now time.Time) bool {
	return c.Tier == TierPro && c.TierExpiresAt != nil && c.TierExpiresAt.After(now)
}
