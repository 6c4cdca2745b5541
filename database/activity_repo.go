package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vihaanharrison/portfolio-backend/models"
	"gorm.io/gorm"
)

type ActivityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) *ActivityRepo {
	return &ActivityRepo{db}
}

// FindAll returns all activities ordered for the timeline, newest first.
// An empty category matches everything.
func (r *ActivityRepo) FindAll(category string) ([]*models.Activity, error) {
	query := r.db.Order("start_date DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var activities []*models.Activity
	err := query.Find(&activities).Error
	return activities, err
}

// FindByID returns an activity by its ID, or nil when no row exists.
func (r *ActivityRepo) FindByID(id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.First(&activity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// Add inserts a new activity into the database.
func (r *ActivityRepo) Add(activity *models.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	return r.db.Create(activity).Error
}

// Update updates an existing activity in the database.
func (r *ActivityRepo) Update(activity *models.Activity) error {
	return r.db.Save(activity).Error
}

// Delete removes an activity from the database by id.
func (r *ActivityRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Activity{}, "id = ?", id).Error
}
