package database

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vihaanharrison/portfolio-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ProjectFilter narrows FindFiltered. Nil fields are ignored.
type ProjectFilter struct {
	Category     string
	IsWork       *bool
	FeaturedOnly bool
}

// FindAll returns all projects ordered by start date, newest first.
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	return r.FindFiltered(ProjectFilter{})
}

// FindFiltered returns projects matching the filter, with tags preloaded in
// stored order.
func (r *ProjectRepo) FindFiltered(filter ProjectFilter) ([]*models.Project, error) {
	query := r.db.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Order("start_date DESC")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.IsWork != nil {
		query = query.Where("is_work = ?", *filter.IsWork)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	var projects []*models.Project
	err := query.Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil when no row exists.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database.
func (r *ProjectRepo) Add(project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	return r.db.Create(project).Error
}

// Update updates an existing project in the database.
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and its tags from the database by id.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

// CountFeatured counts projects currently carrying the featured flag.
func (r *ProjectRepo) CountFeatured() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("is_featured = ?", true).Count(&count).Error
	return count, err
}

// SetFeatured flips the featured flag on a single project.
func (r *ProjectRepo) SetFeatured(id uuid.UUID, featured bool) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).
		Update("is_featured", featured).Error
}
