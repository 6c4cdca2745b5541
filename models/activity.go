package models

import "github.com/google/uuid"

// Activity represents a discrete career or academic milestone shown on the
// timeline. Unlike projects, the category is free text.
type Activity struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string    `json:"title" db:"title" gorm:"type:text;not null"`
	Category    string    `json:"category" db:"category" gorm:"type:text;not null"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null"`
	StartDate   string    `json:"start_date" db:"start_date" gorm:"type:text;not null"`
	EndDate     *string   `json:"end_date,omitempty" db:"end_date" gorm:"type:text"`
}
