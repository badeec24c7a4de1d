package models

import "time"

// Test run statuses.
const (
	TestPending = "pending"
	TestPassed  = "passed"
	TestFailed  = "failed"
)

// Test is a developer-defined check executed by the simulated test runner.
type Test struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:255;not null"`
	Description    string
	TestType       string `gorm:"size:100;not null"`
	Code           string
	ExpectedOutput string
	ActualOutput   string
	Status         string `gorm:"size:20;not null;default:pending"`
	CreatedBy      *uint
	CreatedAt      time.Time
	ExecutedAt     *time.Time
}

func (t *Test) ToDict() map[string]any {
	d := map[string]any{
		"id":              t.ID,
		"name":            t.Name,
		"description":     t.Description,
		"test_type":       t.TestType,
		"code":            t.Code,
		"expected_output": t.ExpectedOutput,
		"actual_output":   t.ActualOutput,
		"status":          t.Status,
		"created_by":      t.CreatedBy,
		"created_at":      t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.ExecutedAt != nil {
		d["executed_at"] = t.ExecutedAt.UTC().Format(time.RFC3339)
	} else {
		d["executed_at"] = nil
	}
	return d
}

func (Test) TableName() string { return "tests" }
