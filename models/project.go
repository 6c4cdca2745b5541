package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MaxFeaturedProjects caps how many projects may carry the featured flag
// at the same time.
const MaxFeaturedProjects = 6

// Project represents a showcased project or achievement. Dates are stored
// as "YYYY-MM-DD" strings; a nil EndDate means the project is ongoing.
type Project struct {
	ID          uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string         `json:"title" db:"title" gorm:"type:text;not null"`
	Category    string         `json:"category" db:"category" gorm:"type:text;not null"`
	Description string         `json:"description" db:"description" gorm:"type:text;not null"`
	Writeup     string         `json:"writeup,omitempty" db:"writeup" gorm:"type:text"`
	Impact      string         `json:"impact,omitempty" db:"impact" gorm:"type:text"`
	StartDate   string         `json:"start_date" db:"start_date" gorm:"type:text;not null"`
	EndDate     *string        `json:"end_date,omitempty" db:"end_date" gorm:"type:text"`
	IsFeatured  bool           `json:"is_featured" db:"is_featured" gorm:"not null;default:false"`
	IsWork      bool           `json:"is_work" db:"is_work" gorm:"not null;default:false"`
	ImageURLs   datatypes.JSON `json:"image_urls,omitempty" db:"image_urls"`
	GithubURL   string         `json:"github_url,omitempty" db:"github_url" gorm:"type:text"`
	LiveURL     string         `json:"live_url,omitempty" db:"live_url" gorm:"type:text"`
	Tags        []ProjectTag   `json:"tags,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// SetImageURLs stores urls as the JSON image list, preserving order.
func (p *Project) SetImageURLs(urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	p.ImageURLs = datatypes.JSON(data)
	return nil
}

// ImageURLList decodes the stored image list. An unset column decodes to nil.
func (p *Project) ImageURLList() []string {
	if len(p.ImageURLs) == 0 {
		return nil
	}
	var urls []string
	if err := json.Unmarshal(p.ImageURLs, &urls); err != nil {
		return nil
	}
	return urls
}

// TagValues returns the tag strings in stored order.
func (p *Project) TagValues() []string {
	values := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		values = append(values, t.Value)
	}
	return values
}
