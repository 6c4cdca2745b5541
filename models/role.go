package models

import "github.com/google/uuid"

// RoleAdmin is the only role the system grants today.
const RoleAdmin = "admin"

// RoleGrant associates an account with a role. The unique index makes the
// grant idempotent: inserting a second row for the same pair is a conflict
// the repo resolves with do-nothing semantics.
type RoleGrant struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	AccountID uuid.UUID `json:"account_id" db:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_account_role"`
	Role      string    `json:"role" db:"role" gorm:"type:text;not null;uniqueIndex:idx_account_role"`
}
