package database

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vihaanharrison/portfolio-backend/models"
	"gorm.io/gorm"
)

type AccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{db}
}

// FindByEmail returns the account for an email (case-insensitive), or nil
// when none exists.
func (r *AccountRepo) FindByEmail(email string) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByID returns an account by its ID, or nil when no row exists.
func (r *AccountRepo) FindByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Add inserts a new account, normalizing the email to lower case.
func (r *AccountRepo) Add(account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	return r.db.Create(account).Error
}
