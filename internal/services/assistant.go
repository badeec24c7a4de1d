package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/models"
)

// AssistantService manages the virtual assistant personas.
type AssistantService struct {
	db    *gorm.DB
	audit *audit.Recorder
}

func NewAssistantService(db *gorm.DB, rec *audit.Recorder) *AssistantService {
	return &AssistantService{db: db, audit: rec}
}

// Create adds a new assistant owned by the given user.
func (s *AssistantService) Create(ctx context.Context, name, description, specialty, icon, color string, createdBy uint) (uint, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: assistant name is required", ErrValidation)
	}
	if icon == "" {
		icon = "⚖️"
	}
	if color == "" {
		color = "#007bff"
	}
	a := models.Assistant{
		Name:        name,
		Description: description,
		Specialty:   specialty,
		Icon:        icon,
		Color:       color,
		CreatedBy:   &createdBy,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return 0, err
	}
	s.audit.Info(ctx, fmt.Sprintf("assistant created: %s", name), "assistants", &createdBy)
	return a.ID, nil
}

// Active returns the assistants available in the chat picker.
func (s *AssistantService) Active(ctx context.Context) ([]models.Assistant, error) {
	var assistants []models.Assistant
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&assistants).Error
	return assistants, err
}

// All returns every assistant for the admin and developer panels.
func (s *AssistantService) All(ctx context.Context) ([]models.Assistant, error) {
	var assistants []models.Assistant
	err := s.db.WithContext(ctx).Find(&assistants).Error
	return assistants, err
}
