package models

import "time"

// KnowledgeEntry is a curated legal reference document. Only verified
// entries are returned by search.
type KnowledgeEntry struct {
	ID         uint   `gorm:"primaryKey"`
	Title      string `gorm:"size:255;not null"`
	Content    string `gorm:"not null"`
	Category   string `gorm:"size:100;index"`
	Source     string `gorm:"size:255"`
	Icon       string `gorm:"size:20;default:📚"`
	UploadedBy *uint
	IsVerified bool `gorm:"not null;default:false"`
	VerifiedBy *uint
	CreatedAt  time.Time
}

func (k *KnowledgeEntry) ToDict() map[string]any {
	return map[string]any{
		"id":          k.ID,
		"title":       k.Title,
		"content":     k.Content,
		"category":    k.Category,
		"source":      k.Source,
		"icon":        k.Icon,
		"uploaded_by": k.UploadedBy,
		"is_verified": k.IsVerified,
		"verified_by": k.VerifiedBy,
		"created_at":  k.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (KnowledgeEntry) TableName() string { return "knowledge_base" }
