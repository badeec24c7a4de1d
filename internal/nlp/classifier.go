// Package nlp maps free-text legal questions to an intent, category and
// canned response. It is a deliberate keyword matcher, not a language model;
// the rest of the system treats it as an opaque collaborator.
package nlp

import (
	"strings"
	"time"
)

// Result is the classifier output for one query.
type Result struct {
	Response   string  `json:"response"`
	Intent     string  `json:"intent"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Icon       string  `json:"icon"`
	Timestamp  string  `json:"timestamp"`
}

// Classifier produces a Result for a user query.
type Classifier interface {
	Classify(text string) Result
}

type rule struct {
	intent   string
	category string
	icon     string
	response string
	keywords []string
}

var defaultRules = []rule{
	{
		intent:   "contract_question",
		category: "civil law",
		icon:     "🏛️",
		response: "Contract disputes are governed by civil law. Review the written terms first; unwritten amendments are hard to enforce. For amounts above the small-claims limit, consider a formal claim.",
		keywords: []string{"contract", "agreement", "deal", "purchase", "sale", "property", "real estate", "landlord", "tenant", "rent", "lease"},
	},
	{
		intent:   "employment_question",
		category: "labor law",
		icon:     "👨‍💼",
		response: "Employment matters fall under labor law. Dismissals require documented grounds and notice periods; unpaid wages can be claimed with interest. Keep copies of your employment contract and payslips.",
		keywords: []string{"work", "job", "employer", "employee", "salary", "wage", "dismissal", "fired", "vacation", "overtime", "labor"},
	},
	{
		intent:   "family_question",
		category: "family law",
		icon:     "👨‍👩‍👧",
		response: "Family matters such as divorce, custody and alimony are handled under family law. Mutual-consent divorce is the fastest route; contested cases need a court filing with supporting documents.",
		keywords: []string{"divorce", "marriage", "custody", "alimony", "child", "spouse", "family", "inheritance", "will"},
	},
	{
		intent:   "document_request",
		category: "templates",
		icon:     "📄",
		response: "Document templates are available in the knowledge base. Search for the document type you need and adapt the placeholders to your situation.",
		keywords: []string{"template", "document", "form", "sample", "draft"},
	},
}

const (
	fallbackIntent   = "clarify"
	fallbackResponse = "I could not confidently classify your question. Could you describe your situation in more detail, mentioning the area of law involved?"
)

// KeywordClassifier scores each rule by keyword hits and picks the best one.
// Deterministic for a given input.
type KeywordClassifier struct {
	// Threshold below which the fallback "clarify" intent is returned.
	Threshold float64
	rules     []rule
}

// NewKeywordClassifier builds a classifier with the default rule set.
func NewKeywordClassifier(threshold float64) *KeywordClassifier {
	return &KeywordClassifier{Threshold: threshold, rules: defaultRules}
}

// Classify scores the query against every rule. Confidence is the hit ratio
// of the best rule's keywords, so it is always within [0,1] by construction.
func (c *KeywordClassifier) Classify(text string) Result {
	lowered := strings.ToLower(text)
	now := time.Now().UTC().Format(time.RFC3339)

	best := Result{
		Response:  fallbackResponse,
		Intent:    fallbackIntent,
		Category:  "general",
		Icon:      "⚖️",
		Timestamp: now,
	}
	for _, r := range c.rules {
		hits := 0
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		// One hit gives a confident-enough base; extra hits raise it.
		confidence := 0.5 + 0.5*float64(hits-1)/float64(len(r.keywords)-1)
		if confidence > best.Confidence {
			best = Result{
				Response:   r.response,
				Intent:     r.intent,
				Category:   r.category,
				Confidence: confidence,
				Icon:       r.icon,
				Timestamp:  now,
			}
		}
	}
	if best.Confidence < c.Threshold {
		best.Intent = fallbackIntent
		best.Response = fallbackResponse
	}
	return best
}
