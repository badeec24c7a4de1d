package models

import "time"

// Audit log levels.
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// Log is an append-only audit record. Rows are never mutated or deleted by
// normal operation.
type Log struct {
	ID        uint   `gorm:"primaryKey"`
	Level     string `gorm:"size:20;not null;index"`
	Message   string `gorm:"not null"`
	Module    string `gorm:"size:100"`
	UserID    *uint  `gorm:"index"`
	IPAddress string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time
}

func (l *Log) ToDict() map[string]any {
	return map[string]any{
		"id":         l.ID,
		"level":      l.Level,
		"message":    l.Message,
		"module":     l.Module,
		"user_id":    l.UserID,
		"ip_address": l.IPAddress,
		"created_at": l.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (Log) TableName() string { return "logs" }
