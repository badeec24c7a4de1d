package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIntents(t *testing.T) {
	c := NewKeywordClassifier(0.3)

	cases := []struct {
		name     string
		text     string
		intent   string
		category string
	}{
		{"contract", "My landlord refuses to return the deposit from our lease", "contract_question", "civil law"},
		{"employment", "I was fired without notice and my salary is unpaid", "employment_question", "labor law"},
		{"family", "How is child custody decided in a divorce?", "family_question", "family law"},
		{"documents", "Do you have a template or sample form for a complaint?", "document_request", "templates"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := c.Classify(tc.text)
			assert.Equal(t, tc.intent, res.Intent)
			assert.Equal(t, tc.category, res.Category)
			assert.GreaterOrEqual(t, res.Confidence, 0.0)
			assert.LessOrEqual(t, res.Confidence, 1.0)
			assert.NotEmpty(t, res.Response)
			assert.NotEmpty(t, res.Timestamp)
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	c := NewKeywordClassifier(0.3)
	res := c.Classify("qwertyuiop asdf")
	assert.Equal(t, "clarify", res.Intent)
	assert.Equal(t, "general", res.Category)
	assert.Zero(t, res.Confidence)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewKeywordClassifier(0.3)
	lower := c.Classify("problem with my contract")
	upper := c.Classify("PROBLEM WITH MY CONTRACT")
	assert.Equal(t, lower.Intent, upper.Intent)
	assert.Equal(t, lower.Confidence, upper.Confidence)
}

func TestClassifyMoreHitsRaiseConfidence(t *testing.T) {
	c := NewKeywordClassifier(0.3)
	one := c.Classify("a question about a contract")
	three := c.Classify("the rent contract with my landlord")
	require.Equal(t, one.Intent, three.Intent)
	assert.Greater(t, three.Confidence, one.Confidence)
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewKeywordClassifier(0.3)
	a := c.Classify("dismissal from my job")
	b := c.Classify("dismissal from my job")
	assert.Equal(t, a.Intent, b.Intent)
	assert.Equal(t, a.Confidence, b.Confidence)
	assert.Equal(t, a.Response, b.Response)
}

func TestClassifyHighThresholdForcesClarify(t *testing.T) {
	c := NewKeywordClassifier(0.99)
	res := c.Classify("a question about a contract")
	assert.Equal(t, "clarify", res.Intent)
	// score is kept even when the intent falls back
	assert.Greater(t, res.Confidence, 0.0)
}
