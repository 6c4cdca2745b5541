package database

import (
	"github.com/google/uuid"
	"github.com/vihaanharrison/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) *RoleRepo {
	return &RoleRepo{db}
}

// Grant idempotently gives an account a role. A second grant for the same
// pair hits the unique index and is dropped with conflict-ignore semantics,
// so concurrent double-invocation still leaves exactly one row.
func (r *RoleRepo) Grant(accountID uuid.UUID, role string) error {
	grant := models.RoleGrant{
		ID:        uuid.New(),
		AccountID: accountID,
		Role:      role,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error
}

// Has reports whether the account holds the role. Callers re-derive the
// admin predicate through this on every request; it is never cached.
func (r *RoleRepo) Has(accountID uuid.UUID, role string) (bool, error) {
	var count int64
	err := r.db.Model(&models.RoleGrant{}).
		Where("account_id = ? AND role = ?", accountID, role).
		Count(&count).Error
	return count > 0, err
}

// CountFor returns how many role rows an account holds for a role. Used by
// tests to assert grant idempotence.
func (r *RoleRepo) CountFor(accountID uuid.UUID, role string) (int64, error) {
	var count int64
	err := r.db.Model(&models.RoleGrant{}).
		Where("account_id = ? AND role = ?", accountID, role).
		Count(&count).Error
	return count, err
}
