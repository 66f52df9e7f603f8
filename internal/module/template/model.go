// Package template persists report definitions so clients can manage a
// library of reusable layouts alongside ad-hoc generation.
package template

import (
	"time"

	"github.com/lib/pq"
)

// Template represents a stored report definition.
type Template struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"not null;index"`
	Definition string         `json:"definition" gorm:"type:jsonb;not null"`
	Tags       pq.StringArray `json:"tags" gorm:"type:text[]"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName returns the database table name.
func (Template) TableName() string {
	return "report_templates"
}
