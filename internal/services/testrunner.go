package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/models"
)

// TestService backs the developer panel's test runner. Execution is
// simulated: a run flips a coin and records the outcome.
type TestService struct {
	db    *gorm.DB
	audit *audit.Recorder

	// rng is swappable so tests can pin the outcome.
	rng *rand.Rand
}

func NewTestService(db *gorm.DB, rec *audit.Recorder) *TestService {
	return &TestService{db: db, audit: rec, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Create records a new test definition in pending state.
func (s *TestService) Create(ctx context.Context, name, description, testType, code, expectedOutput string, createdBy uint) (uint, error) {
	if name == "" || testType == "" {
		return 0, fmt.Errorf("%w: name and test_type are required", ErrValidation)
	}
	t := models.Test{
		Name:           name,
		Description:    description,
		TestType:       testType,
		Code:           code,
		ExpectedOutput: expectedOutput,
		Status:         models.TestPending,
		CreatedBy:      &createdBy,
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	s.audit.Info(ctx, fmt.Sprintf("test created: %s", name), "developer", &createdBy)
	return t.ID, nil
}

// Run executes a test. The simulation picks passed or failed at random and
// stamps the execution time; rerunning overwrites the previous outcome.
func (s *TestService) Run(ctx context.Context, testID uint) (*models.Test, error) {
	var t models.Test
	if err := s.db.WithContext(ctx).First(&t, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := models.TestPassed
	actual := `{"result": "success"}`
	if s.rng.Intn(2) == 1 {
		status = models.TestFailed
		actual = `{"result": "error"}`
	}
	now := time.Now()
	updates := map[string]any{
		"status":        status,
		"actual_output": actual,
		"executed_at":   now,
	}
	if err := s.db.WithContext(ctx).Model(&t).Updates(updates).Error; err != nil {
		return nil, err
	}
	t.Status = status
	t.ActualOutput = actual
	t.ExecutedAt = &now
	return &t, nil
}

// List returns every test, newest first.
func (s *TestService) List(ctx context.Context) ([]models.Test, error) {
	var tests []models.Test
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&tests).Error
	return tests, err
}

// TestStats holds per-status totals for the developer panel.
type TestStats struct {
	Total   int64 `json:"total_tests"`
	Passed  int64 `json:"passed_tests"`
	Failed  int64 `json:"failed_tests"`
	Pending int64 `json:"pending_tests"`
}

func (s *TestService) Stats(ctx context.Context) (TestStats, error) {
	var stats TestStats
	if err := s.db.WithContext(ctx).Model(&models.Test{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	counts := []struct {
		status string
		dst    *int64
	}{
		{models.TestPassed, &stats.Passed},
		{models.TestFailed, &stats.Failed},
		{models.TestPending, &stats.Pending},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(&models.Test{}).Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return stats, err
		}
	}
	return stats, nil
}
