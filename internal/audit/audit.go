// Package audit writes security and business events to the append-only logs
// table. Writes are best-effort: a failed insert never blocks the operation
// that produced the event, it is only reported through the process logger.
package audit

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/auth"
	"github.com/lexhelp/platform/internal/models"
)

// queryLimit caps the admin log page.
const queryLimit = 100

type metaKey struct{}

// RequestMeta is the per-request information recorded alongside every entry.
// It travels in the request context, set by middleware, never in globals.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta stores request metadata in the context.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

func metaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(metaKey{}).(RequestMeta)
	return meta
}

// Recorder appends audit entries and serves the admin query surface.
type Recorder struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewRecorder(db *gorm.DB, log *zap.SugaredLogger) *Recorder {
	return &Recorder{db: db, log: log}
}

// Record appends one entry. When userID is nil the authenticated identity
// from the context is used, if any. Persistence failures are swallowed after
// being reported; sustained failures surface in the process log stream for
// operational alerting.
func (r *Recorder) Record(ctx context.Context, level, message, module string, userID *uint) {
	if userID == nil {
		if id, ok := auth.IdentityFromContext(ctx); ok {
			uid := id.UserID
			userID = &uid
		}
	}
	meta := metaFromContext(ctx)
	entry := models.Log{
		Level:     level,
		Message:   message,
		Module:    module,
		UserID:    userID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.log.Errorw("audit write failed", "level", level, "module", module, "err", err)
	}
}

func (r *Recorder) Info(ctx context.Context, message, module string, userID *uint) {
	r.Record(ctx, models.LevelInfo, message, module, userID)
}

func (r *Recorder) Warning(ctx context.Context, message, module string, userID *uint) {
	r.Record(ctx, models.LevelWarning, message, module, userID)
}

func (r *Recorder) Error(ctx context.Context, message, module string, userID *uint) {
	r.Record(ctx, models.LevelError, message, module, userID)
}

// Filter narrows a log query. Zero values mean "no filter".
type Filter struct {
	Level  string
	UserID uint
}

// Query returns matching entries, newest first, capped at 100 rows.
func (r *Recorder) Query(f Filter) ([]models.Log, error) {
	q := r.db.Model(&models.Log{})
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	var logs []models.Log
	err := q.Order("created_at DESC").Limit(queryLimit).Find(&logs).Error
	return logs, err
}

// Stats holds per-level totals for the admin log page.
type Stats struct {
	Total   int64 `json:"total_logs"`
	Info    int64 `json:"info_logs"`
	Warning int64 `json:"warning_logs"`
	Errors  int64 `json:"error_logs"`
}

func (r *Recorder) QueryStats() (Stats, error) {
	var s Stats
	if err := r.db.Model(&models.Log{}).Count(&s.Total).Error; err != nil {
		return s, err
	}
	counts := []struct {
		level string
		dst   *int64
	}{
		{models.LevelInfo, &s.Info},
		{models.LevelWarning, &s.Warning},
		{models.LevelError, &s.Errors},
	}
	for _, c := range counts {
		if err := r.db.Model(&models.Log{}).Where("level = ?", c.level).Count(c.dst).Error; err != nil {
			return s, err
		}
	}
	return s, nil
}
