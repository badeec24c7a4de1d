package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/audit"
	"github.com/lexhelp/platform/internal/models"
	"github.com/lexhelp/platform/internal/nlp"
)

// stubClassifier returns a canned result so tests control the confidence.
type stubClassifier struct {
	result nlp.Result
}

func (s stubClassifier) Classify(string) nlp.Result { return s.result }

func newMessageService(t *testing.T, c nlp.Classifier) (*MessageService, *gorm.DB) {
	t.Helper()
	conn := setupTestDB(t)
	rec := audit.NewRecorder(conn, zap.NewNop().Sugar())
	return NewMessageService(conn, rec, c), conn
}

func TestSendPersistsUnverified(t *testing.T) {
	svc, conn := newMessageService(t, stubClassifier{result: nlp.Result{
		Response:   "see the contract guide",
		Intent:     "contract_question",
		Category:   "civil law",
		Confidence: 0.75,
	}})

	msg, err := svc.Send(context.Background(), 1, nil, "  how do I terminate a contract?  ")
	require.NoError(t, err)
	assert.Equal(t, "how do I terminate a contract?", msg.Message, "input is trimmed")
	assert.Equal(t, "contract_question", msg.Intent)
	assert.False(t, msg.IsVerified)
	assert.Nil(t, msg.Rating)
	assert.Nil(t, msg.VerifiedBy)

	var stored models.ChatMessage
	require.NoError(t, conn.First(&stored, msg.ID).Error)
	assert.InDelta(t, 0.75, stored.Confidence, 1e-9)
}

func TestSendEmptyMessage(t *testing.T) {
	svc, _ := newMessageService(t, stubClassifier{})
	_, err := svc.Send(context.Background(), 1, nil, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendClampsConfidence(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"above range", 1.5, 1.0},
		{"below range", -0.2, 0.0},
		{"lower bound", 0.0, 0.0},
		{"upper bound", 1.0, 1.0},
		{"in range", 0.42, 0.42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newMessageService(t, stubClassifier{result: nlp.Result{Confidence: tc.in}})
			msg, err := svc.Send(context.Background(), 1, nil, "question")
			require.NoError(t, err)
			assert.InDelta(t, tc.want, msg.Confidence, 1e-9)
		})
	}
}

func TestVerifyApprove(t *testing.T) {
	svc, conn := newMessageService(t, stubClassifier{})
	ctx := context.Background()

	msg, err := svc.Send(ctx, 1, nil, "question")
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, msg.ID, 7, ActionApprove, "looks correct"))

	var stored models.ChatMessage
	require.NoError(t, conn.First(&stored, msg.ID).Error)
	assert.True(t, stored.IsVerified)
	require.NotNil(t, stored.VerifiedBy)
	assert.EqualValues(t, 7, *stored.VerifiedBy)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 5, *stored.Rating)
	assert.Equal(t, "looks correct", stored.VerificationNotes)
}

func TestVerifyRejectRequiresNotes(t *testing.T) {
	svc, _ := newMessageService(t, stubClassifier{})
	ctx := context.Background()

	msg, err := svc.Send(ctx, 1, nil, "question")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(ctx, msg.ID, 7, ActionReject, "   "), ErrValidation)
}

func TestVerifyRejectAfterApproveKeepsStamp(t *testing.T) {
	svc, conn := newMessageService(t, stubClassifier{})
	ctx := context.Background()

	msg, err := svc.Send(ctx, 1, nil, "question")
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, msg.ID, 7, ActionApprove, "ok"))
	require.NoError(t, svc.Verify(ctx, msg.ID, 9, ActionReject, "actually wrong"))

	var stored models.ChatMessage
	require.NoError(t, conn.First(&stored, msg.ID).Error)
	assert.False(t, stored.IsVerified)
	assert.Equal(t, "actually wrong", stored.VerificationNotes)
	// reject does not touch verified_by, so the first expert's stamp survives
	require.NotNil(t, stored.VerifiedBy)
	assert.EqualValues(t, 7, *stored.VerifiedBy)
}

func TestVerifyUnknownAction(t *testing.T) {
	svc, _ := newMessageService(t, stubClassifier{})
	ctx := context.Background()

	msg, err := svc.Send(ctx, 1, nil, "question")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(ctx, msg.ID, 7, "escalate", ""), ErrValidation)
}

func TestVerifyMissingMessage(t *testing.T) {
	svc, _ := newMessageService(t, stubClassifier{})
	assert.ErrorIs(t, svc.Verify(context.Background(), 9999, 7, ActionApprove, ""), ErrNotFound)
}

func TestHistoryAndUnverified(t *testing.T) {
	svc, _ := newMessageService(t, stubClassifier{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Send(ctx, 1, nil, "mine")
		require.NoError(t, err)
	}
	other, err := svc.Send(ctx, 2, nil, "theirs")
	require.NoError(t, err)

	history, err := svc.History(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2, "limit applies")

	history, err = svc.History(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, history, 3, "zero limit means all")
	for _, m := range history {
		assert.EqualValues(t, 1, m.UserID)
	}

	require.NoError(t, svc.Verify(ctx, other.ID, 7, ActionApprove, "ok"))
	pending, err := svc.Unverified(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 3, "approved messages leave the queue")
}

func TestNLPStats(t *testing.T) {
	svc, _ := newMessageService(t, stubClassifier{result: nlp.Result{Confidence: 0.9}})
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalQueries)

	_, err = svc.Send(ctx, 1, nil, "a")
	require.NoError(t, err)
	_, err = svc.Send(ctx, 1, nil, "b")
	require.NoError(t, err)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalQueries)
	assert.EqualValues(t, 2, stats.HighConfidence)
	assert.InDelta(t, 0.9, stats.AvgConfidence, 1e-9)
}
