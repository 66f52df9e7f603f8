package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTemplateNotFound is returned when a template does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// Repository defines the interface for template data access.
type Repository interface {
	Create(ctx context.Context, tpl *Template) error
	List(ctx context.Context) ([]*Template, error)
	Get(ctx context.Context, id string) (*Template, error)
	Update(ctx context.Context, tpl *Template) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new template repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tpl *Template) error {
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(tpl).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]*Template, error) {
	var templates []*Template
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Template, error) {
	var tpl Template
	err := r.db.WithContext(ctx).First(&tpl, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &tpl, nil
}

func (r *repository) Update(ctx context.Context, tpl *Template) error {
	result := r.db.WithContext(ctx).
		Model(&Template{}).
		Where("id = ?", tpl.ID).
		Updates(map[string]any{
			"name":       tpl.Name,
			"definition": tpl.Definition,
			"tags":       tpl.Tags,
		})
	if result.Error != nil {
		return fmt.Errorf("update template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&Template{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
