package normalize

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// Vendor metadata property names consumed from the extraction.
const (
	propTime        = "time_hhmm"
	propCostPerHour = "cost_per_hour"
	propCurrency    = "currency"
	propOwner       = "task_owner"
	propStatus      = "task_status"
	propDocStatus   = "doc_status"
	propDocURL      = "doc_url"
	propDescription = "task_description"
	propIndustry    = "task_industry"
	propTools       = "tools_used"
	propOpps        = "opportunities"
	propIssues      = "issues_text"
	propPriority    = "issues_priority"
)

// Normalizer turns raw property maps into typed tasks. Every conversion
// defaults on bad input instead of failing; the audit surfaces the gaps.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(docID string, raw domain.RawTask) domain.Task {
	props := raw.Properties
	if props == nil {
		props = map[string]string{}
	}

	rawTime := strings.TrimSpace(props[propTime])
	minutes := ParseTimeMinutes(rawTime)
	costPerHour := parseFloat(props[propCostPerHour])

	task := domain.Task{
		ID:        raw.ID,
		Name:      raw.Name,
		SourceDoc: docID,
		Process:   raw.Process,
		Swimlane:  raw.Lane,
		Type:      raw.Type,
		Owner:     strings.TrimSpace(props[propOwner]),

		RawTime:     rawTime,
		TimeMinutes: minutes,
		CostPerHour: costPerHour,
		Currency:    currencyOrDefault(props[propCurrency]),
		TotalCost:   TotalCost(minutes, costPerHour),

		Status:      strings.TrimSpace(props[propStatus]),
		DocStatus:   ParseDocStatus(props[propDocStatus]),
		DocURL:      strings.TrimSpace(props[propDocURL]),
		Description: strings.TrimSpace(props[propDescription]),
		Industry:    strings.TrimSpace(props[propIndustry]),
		Tools:       SplitTools(props[propTools]),

		Opportunities:  strings.TrimSpace(props[propOpps]),
		IssuesText:     strings.TrimSpace(props[propIssues]),
		IssuesPriority: strings.TrimSpace(props[propPriority]),
		FAQ:            faqPairs(props),
	}

	if task.Swimlane == "" {
		task.Swimlane = domain.UnknownLane
	}
	return task
}

// ParseTimeMinutes converts a time estimate to minutes. The expected format
// is HH:MM with no upper bound on hours; a bare number is read as whole
// hours, which some source models use. Anything else is 0.
func ParseTimeMinutes(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if !strings.Contains(s, ":") {
		hours, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return int(hours * 60)
	}
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 2 {
		return 0
	}
	hours, minutes := 0, 0
	if h := strings.TrimSpace(parts[0]); h != "" {
		v, err := strconv.Atoi(h)
		if err != nil {
			return 0
		}
		hours = v
	}
	if m := strings.TrimSpace(parts[1]); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			return 0
		}
		minutes = v
	}
	return hours*60 + minutes
}

// TotalCost computes hours x rate rounded to two decimals. Negative rates
// pass through; the audit flags them, normalization does not clamp.
func TotalCost(minutes int, costPerHour float64) float64 {
	cost := decimal.NewFromInt(int64(minutes)).
		Div(decimal.NewFromInt(60)).
		Mul(decimal.NewFromFloat(costPerHour)).
		Round(2)
	f, _ := cost.Float64()
	return f
}

// ParseDocStatus maps free text into the closed documentation vocabulary.
// Unrecognized text becomes Unknown rather than being dropped.
func ParseDocStatus(s string) domain.DocStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "documented":
		return domain.DocStatusDocumented
	case "in process to be documented", "in process":
		return domain.DocStatusInProcess
	case "not documented":
		return domain.DocStatusNotDocumented
	case "draft":
		return domain.DocStatusDraft
	default:
		return domain.DocStatusUnknown
	}
}

// SplitTools splits a delimited tool list into trimmed, deduplicated tokens
// in their original order. Semicolons win over commas when both appear, and
// the French conjunction "et" inside a token splits it further. Common
// Microsoft-product spellings are folded together so "ms excel" and
// "Microsoft Excel" aggregate as one tool.
func SplitTools(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	sep := ","
	if strings.Contains(s, ";") {
		sep = ";"
	}

	var tokens []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, " et ") {
			for _, sub := range strings.Split(part, " et ") {
				if sub = strings.TrimSpace(sub); sub != "" {
					tokens = append(tokens, sub)
				}
			}
			continue
		}
		tokens = append(tokens, part)
	}

	seen := map[string]bool{}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tool := canonicalTool(tok)
		if tool == "" || seen[tool] {
			continue
		}
		seen[tool] = true
		out = append(out, tool)
	}
	return out
}

var toolVariants = map[string]string{
	"teams":      "Teams",
	"excel":      "Excel",
	"outlook":    "Outlook",
	"word":       "Word",
	"powerpoint": "PowerPoint",
	"planner":    "Planner",
}

func canonicalTool(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	lower := strings.ToLower(s)
	for _, prefix := range []string{"microsoft ", "ms ", "office "} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			lower = lower[len(prefix):]
		}
	}
	if folded, ok := toolVariants[lower]; ok {
		return folded
	}
	return s
}

// faqPairs collects up to three question/answer slots. Half-filled pairs are
// preserved as-is; only fully empty slots are dropped.
func faqPairs(props map[string]string) []domain.FAQPair {
	var out []domain.FAQPair
	for _, slot := range []struct{ q, a string }{
		{"faq_q1", "faq_a1"},
		{"faq_q2", "faq_a2"},
		{"faq_q3", "faq_a3"},
	} {
		pair := domain.FAQPair{
			Question: strings.TrimSpace(props[slot.q]),
			Answer:   strings.TrimSpace(props[slot.a]),
		}
		if pair.Question != "" || pair.Answer != "" {
			out = append(out, pair)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func currencyOrDefault(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NoCurrency
	}
	return s
}
