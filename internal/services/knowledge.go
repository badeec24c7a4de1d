package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/models"
)

// KnowledgeService manages the curated legal reference base.
type KnowledgeService struct {
	db    *gorm.DB
	audit *audit.Recorder
}

func NewKnowledgeService(db *gorm.DB, rec *audit.Recorder) *KnowledgeService {
	return &KnowledgeService{db: db, audit: rec}
}

// Add inserts a new entry. Entries added by experts arrive pre-verified;
// everything else waits for expert verification before search can see it.
func (s *KnowledgeService) Add(ctx context.Context, title, content, category, source, icon string, uploadedBy uint, verified bool) (uint, error) {
	if title == "" || content == "" {
		return 0, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if icon == "" {
		icon = "📚"
	}
	entry := models.KnowledgeEntry{
		Title:      title,
		Content:    content,
		Category:   category,
		Source:     source,
		Icon:       icon,
		UploadedBy: &uploadedBy,
		IsVerified: verified,
	}
	if verified {
		entry.VerifiedBy = &uploadedBy
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return 0, err
	}
	s.audit.Info(ctx, fmt.Sprintf("knowledge base entry added: %s", title), "knowledge", &uploadedBy)
	return entry.ID, nil
}

// Search returns verified entries matching the query in title or content,
// optionally narrowed to a category, newest first. Unverified entries are
// never returned.
func (s *KnowledgeService) Search(ctx context.Context, query, category string) ([]models.KnowledgeEntry, error) {
	pattern := "%" + query + "%"
	q := s.db.WithContext(ctx).
		Where("is_verified = ?", true).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var entries []models.KnowledgeEntry
	err := q.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// All returns every entry, verified or not, for the expert panel.
func (s *KnowledgeService) All(ctx context.Context) ([]models.KnowledgeEntry, error) {
	var entries []models.KnowledgeEntry
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// Verify marks an entry as expert-approved.
func (s *KnowledgeService) Verify(ctx context.Context, entryID, expertID uint) error {
	var entry models.KnowledgeEntry
	if err := s.db.WithContext(ctx).First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	updates := map[string]any{"is_verified": true, "verified_by": expertID}
	if err := s.db.WithContext(ctx).Model(&entry).Updates(updates).Error; err != nil {
		return err
	}
	s.audit.Info(ctx, fmt.Sprintf("knowledge base entry %d verified", entryID), "knowledge", &expertID)
	return nil
}
