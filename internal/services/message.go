package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/models"
	"github.com/lexhelp/platform/internal/nlp"
)

// Verification actions accepted by Verify.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// approvedRating is stamped on every approval. The value is fixed in the
// observed system; it reads like a placeholder rather than a business rule,
// so it is preserved and flagged rather than changed.
const approvedRating = 5

// MessageService owns the chat message lifecycle: submission, classification
// and expert verification.
type MessageService struct {
	db         *gorm.DB
	audit      *audit.Recorder
	classifier nlp.Classifier
}

func NewMessageService(db *gorm.DB, rec *audit.Recorder, classifier nlp.Classifier) *MessageService {
	return &MessageService{db: db, audit: rec, classifier: classifier}
}

// clampConfidence forces a classifier score into [0,1]. The classifier is an
// opaque collaborator; its output is not trusted.
func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Send classifies the user's text and persists the exchange unverified.
func (s *MessageService) Send(ctx context.Context, userID uint, assistantID *uint, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrValidation)
	}

	result := s.classifier.Classify(text)
	msg := models.ChatMessage{
		UserID:      userID,
		AssistantID: assistantID,
		Message:     text,
		Response:    result.Response,
		Intent:      result.Intent,
		Category:    result.Category,
		Confidence:  clampConfidence(result.Confidence),
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Verify applies an expert verdict to a message.
//
// Approve sets is_verified, stamps the expert and a fixed rating, and stores
// the notes. Reject clears is_verified and stores the notes; it does not
// touch verified_by, so a previously approved message keeps its old stamp.
// There is no transition guard: verdicts are repeatable and fully overwrite
// prior state, and two concurrent experts race last-write-wins. Rejections
// require notes so rework always carries a reason.
func (s *MessageService) Verify(ctx context.Context, messageID, expertID uint, action, notes string) error {
	var msg models.ChatMessage
	if err := s.db.WithContext(ctx).First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var updates map[string]any
	switch action {
	case ActionApprove:
		updates = map[string]any{
			"is_verified":        true,
			"verified_by":        expertID,
			"verification_notes": notes,
			"rating":             approvedRating,
		}
	case ActionReject:
		if strings.TrimSpace(notes) == "" {
			return fmt.Errorf("%w: rejection requires notes", ErrValidation)
		}
		updates = map[string]any{
			"is_verified":        false,
			"verification_notes": notes,
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}

	if err := s.db.WithContext(ctx).Model(&msg).Updates(updates).Error; err != nil {
		return err
	}
	s.audit.Info(ctx, fmt.Sprintf("message %d verified: %s", messageID, action), "expert", &expertID)
	return nil
}

// History returns the user's messages, newest first. A zero limit means all.
func (s *MessageService) History(ctx context.Context, userID uint, limit int) ([]models.ChatMessage, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var msgs []models.ChatMessage
	err := q.Find(&msgs).Error
	return msgs, err
}

// Unverified returns every message still awaiting an expert verdict, newest
// first.
func (s *MessageService) Unverified(ctx context.Context) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("is_verified = ?", false).
		Order("created_at DESC").
		Find(&msgs).Error
	return msgs, err
}

// NLPStats summarizes classifier performance for the developer panel.
type NLPStats struct {
	TotalQueries   int64   `json:"total_queries"`
	HighConfidence int64   `json:"high_confidence"`
	AvgConfidence  float64 `json:"avg_confidence"`
}

func (s *MessageService) Stats(ctx context.Context) (NLPStats, error) {
	var stats NLPStats
	if err := s.db.WithContext(ctx).Model(&models.ChatMessage{}).Count(&stats.TotalQueries).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&models.ChatMessage{}).Where("confidence > ?", 0.7).Count(&stats.HighConfidence).Error; err != nil {
		return stats, err
	}
	var avg *float64
	err := s.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("confidence > ?", 0.0).
		Select("AVG(confidence)").
		Scan(&avg).Error
	if err != nil {
		return stats, err
	}
	if avg != nil {
		stats.AvgConfidence = *avg
	}
	return stats, nil
}
