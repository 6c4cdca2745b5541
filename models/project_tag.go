package models

import "github.com/google/uuid"

// ProjectTag represents a tag associated with a project. Position preserves
// the order tags were supplied in.
type ProjectTag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_tag_project_id;uniqueIndex:idx_project_tag_unique"`
	Value     string    `json:"value" db:"value" gorm:"type:text;not null;uniqueIndex:idx_project_tag_unique"`
	Position  int       `json:"position" db:"position" gorm:"not null;default:0"`
}
