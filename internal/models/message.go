package models

import "time"

// ChatMessage is one user→assistant exchange. A message is created
// unverified; an expert later approves or rejects the generated response.
type ChatMessage struct {
	ID                uint   `gorm:"primaryKey"`
	UserID            uint   `gorm:"index;not null"`
	AssistantID       *uint  `gorm:"index"`
	Message           string `gorm:"not null"`
	Response          string
	Intent            string  `gorm:"size:100"`
	Category          string  `gorm:"size:100"`
	Confidence        float64 `gorm:"not null;default:0"` // always within [0,1]
	Rating            *int
	IsVerified        bool `gorm:"not null;default:false"`
	VerifiedBy        *uint
	VerificationNotes string
	CreatedAt         time.Time
}

func (m *ChatMessage) ToDict() map[string]any {
	return map[string]any{
		"id":                 m.ID,
		"user_id":            m.UserID,
		"assistant_id":       m.AssistantID,
		"message":            m.Message,
		"response":           m.Response,
		"intent":             m.Intent,
		"category":           m.Category,
		"confidence":         m.Confidence,
		"rating":             m.Rating,
		"is_verified":        m.IsVerified,
		"verified_by":        m.VerifiedBy,
		"verification_notes": m.VerificationNotes,
		"created_at":         m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (ChatMessage) TableName() string { return "chat_messages" }
