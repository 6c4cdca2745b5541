package database

import (
	"github.com/google/uuid"
	"github.com/vihaanharrison/portfolio-backend/models"
	"gorm.io/gorm"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// Add inserts a single tag row.
func (r *ProjectTagRepo) Add(tag *models.ProjectTag) error {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	return r.db.Create(tag).Error
}

// ReplaceForProject swaps a project's tags for the supplied values,
// preserving order through the position column.
func (r *ProjectTagRepo) ReplaceForProject(projectID uuid.UUID, values []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		for i, value := range values {
			if value == "" {
				continue
			}
			tag := models.ProjectTag{
				ID:        uuid.New(),
				ProjectID: projectID,
				Value:     value,
				Position:  i,
			}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindForProject returns a project's tags in stored order.
func (r *ProjectTagRepo) FindForProject(projectID uuid.UUID) ([]models.ProjectTag, error) {
	var tags []models.ProjectTag
	err := r.db.Where("project_id = ?", projectID).Order("position ASC").Find(&tags).Error
	return tags, err
}
