package categorize

import (
	"strings"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

// Rule binds one taxonomy category to its trigger substrings. Triggers are
// checked case-insensitively against the whole text; English and French
// triggers live in the same list and are scanned in one pass.
type Rule struct {
	Category domain.Category `yaml:"category"`
	Triggers []string        `yaml:"triggers"`
}

// RuleTable is a priority-ordered rule list. The first rule with a matching
// trigger wins; declaration order is the tie-break. Text matching nothing
// falls through to Fallback.
type RuleTable struct {
	Rules    []Rule          `yaml:"rules"`
	Fallback domain.Category `yaml:"fallback"`
}

// Classify returns the category for the given free text. It is a pure
// function of (text, table): identical input always yields the identical
// category.
func (t RuleTable) Classify(text string) domain.Category {
	lower := strings.ToLower(text)
	for _, rule := range t.Rules {
		for _, trigger := range rule.Triggers {
			if trigger == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(trigger)) {
				return rule.Category
			}
		}
	}
	if t.Fallback != "" {
		return t.Fallback
	}
	return domain.CategoryOther
}

// Engine classifies opportunity and issue text against two rule tables.
type Engine struct {
	opportunities RuleTable
	issues        RuleTable
}

func NewEngine(opportunities, issues RuleTable) *Engine {
	return &Engine{opportunities: opportunities, issues: issues}
}

// Default returns an engine loaded with the built-in bilingual taxonomy.
func Default() *Engine {
	return NewEngine(DefaultOpportunityRules(), DefaultIssueRules())
}

func (e *Engine) CategorizeOpportunity(text string) domain.Category {
	return e.opportunities.Classify(text)
}

func (e *Engine) CategorizeIssue(text string) domain.Category {
	return e.issues.Classify(text)
}
