// Package services implements the business operations behind the HTTP
// handlers: accounts, chat message lifecycle, knowledge base and the
// developer test runner.
package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/config"
	"github.com/lexhelp/platform/internal/models"
)

// AuthService owns user records and the authentication flow.
type AuthService struct {
	db    *gorm.DB
	audit *audit.Recorder
}

func NewAuthService(db *gorm.DB, rec *audit.Recorder) *AuthService {
	return &AuthService{db: db, audit: rec}
}

// Register creates a new account. The username and email must both be free;
// a conflict on either returns ErrDuplicate and creates nothing.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (uint, error) {
	if username == "" || email == "" || password == "" {
		return 0, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if role == "" {
		role = models.RoleClient
	}
	if !models.ValidRole(role) {
		return 0, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	color, ok := config.RoleColors[role]
	if !ok {
		color = "#007bff"
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		AvatarColor:  color,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// The unique indexes are the backstop for concurrent registrations.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicate
		}
		return 0, err
	}

	s.audit.Info(ctx, fmt.Sprintf("registered new user: %s (role: %s)", username, role), "auth", &user.ID)
	return user.ID, nil
}

// Authenticate verifies credentials and returns the session identity.
// Unknown usernames and wrong passwords produce the same error value so the
// caller cannot enumerate accounts. Disabled accounts are reported as such
// regardless of password correctness.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit.Warning(ctx, fmt.Sprintf("login attempt with unknown username: %s", username), "auth", nil)
			return auth.Identity{}, ErrInvalidCredentials
		}
		return auth.Identity{}, err
	}

	if !user.IsActive {
		s.audit.Warning(ctx, fmt.Sprintf("login attempt on disabled account: %s", username), "auth", &user.ID)
		return auth.Identity{}, ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.audit.Warning(ctx, fmt.Sprintf("wrong password for user: %s", username), "auth", &user.ID)
		return auth.Identity{}, ErrInvalidCredentials
	}

	s.audit.Info(ctx, fmt.Sprintf("user %s logged in", username), "auth", &user.ID)
	return auth.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		AvatarColor: user.AvatarColor,
	}, nil
}

// GetByID fetches a user by id.
func (s *AuthService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Exists reports whether an active user with the given id exists. Wired into
// the policy layer so stale sessions fail closed.
func (s *AuthService) Exists(ctx context.Context, id uint) bool {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return err == nil && count > 0
}

// SetActive toggles an account. Idempotent: setting the current value again
// succeeds and still writes exactly one audit entry per call.
func (s *AuthService) SetActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// gorm reports zero rows for no-op value updates too, so look the
		// user up before concluding it is missing
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	action := "deactivated"
	if active {
		action = "activated"
	}
	s.audit.Info(ctx, fmt.Sprintf("user %d %s", id, action), "auth", nil)
	return nil
}

// SetRole changes a user's role to one of the four platform roles.
func (s *AuthService) SetRole(ctx context.Context, id uint, role string) error {
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("role", role).Error; err != nil {
		return err
	}
	s.audit.Info(ctx, fmt.Sprintf("role of user %d changed to %s", id, role), "auth", nil)
	return nil
}

// UserSummary is a user row with activity counters for the admin panel.
type UserSummary struct {
	models.User
	MessagesCount   int64 `json:"messages_count"`
	AssistantsCount int64 `json:"assistants_count"`
}

// List returns every user with message and assistant counts, newest first.
func (s *AuthService) List(ctx context.Context) ([]UserSummary, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summary := UserSummary{User: u}
		if err := s.db.WithContext(ctx).Model(&models.ChatMessage{}).Where("user_id = ?", u.ID).Count(&summary.MessagesCount).Error; err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(&models.Assistant{}).Where("created_by = ?", u.ID).Count(&summary.AssistantsCount).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Delete removes a user and its chat messages and detaches the assistants the
// user created. The three effects happen in one transaction: all or nothing.
func (s *AuthService) Delete(ctx context.Context, id uint) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Assistant{}).Where("created_by = ?", id).Update("created_by", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return err
	}

	s.audit.Info(ctx, fmt.Sprintf("user %s deleted", user.Username), "admin", nil)
	return nil
}
