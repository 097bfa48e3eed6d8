// Package infer derives a priority tier and a category from free-text
// request descriptions.
//
// Scoring:
//
//   - Text is the lower-cased concatenation of title and description.
//   - Every rule whose trigger is a substring of the text adds its weight.
//     Rule groups are independent; overlapping triggers all contribute.
//   - Demotion rules (negative weights) run last.
//   - Score >= 9 maps to tier 1, score >= 4 to tier 2, anything else to tier 3.
//
// Category is the caller's preferred value when non-blank, otherwise the
// first keyword group matching the text, otherwise DefaultCategory.
//
// Infer never fails: empty or unrecognised text yields tier 3 with
// NoTriggersReason.
package infer

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/civicindex/request"
)

// Tier thresholds.
const (
	TierOneScore = 9
	TierTwoScore = 4
)

// DefaultCategory is used when no keyword group matches.
const DefaultCategory = "General"

// NoTriggersReason is the reason reported when no rule fired.
const NoTriggersReason = "no priority triggers matched"

// Rule is one weighted substring trigger.
type Rule struct {
	Trigger string
	Weight  int
}

// RuleGroup is a named list of rules; the name prefixes each rule's label.
type RuleGroup struct {
	Name  string
	Rules []Rule
}

// CategoryGroup maps a set of keywords to a category.
type CategoryGroup struct {
	Category string
	Keywords []string
}

// Result is the outcome of one inference.
type Result struct {
	Priority int      `json:"priority"`
	Category string   `json:"category"`
	Reason   string   `json:"reason"`
	Score    int      `json:"score"`
	Triggers []string `json:"triggers,omitempty"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithRuleGroup appends a scoring group after the default ones and before
// the demotion pass.
func WithRuleGroup(g RuleGroup) Option {
	return func(e *Engine) {
		e.groups = append(e.groups, normalizeGroup(g))
	}
}

// WithCategoryGroup appends a category group after the default ones.
func WithCategoryGroup(g CategoryGroup) Option {
	return func(e *Engine) {
		kw := make([]string, len(g.Keywords))
		for i, k := range g.Keywords {
			kw[i] = strings.ToLower(k)
		}
		e.categories = append(e.categories, CategoryGroup{Category: g.Category, Keywords: kw})
	}
}

// Engine holds the trigger tables. It is immutable after New and safe for
// concurrent use.
type Engine struct {
	groups     []RuleGroup
	demotions  RuleGroup
	categories []CategoryGroup
}

// New returns an Engine loaded with the default tables plus any extensions.
func New(opts ...Option) *Engine {
	e := &Engine{
		groups:     defaultRuleGroups(),
		demotions:  demotionRules,
		categories: defaultCategoryGroups(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Infer runs the default engine.
func Infer(title, description, preferredCategory string) Result {
	return defaultEngine.Infer(title, description, preferredCategory)
}

// Infer scores title and description and picks a category.
//
// Steps:
//  1. Lower-case title + " " + description.
//  2. Walk every scoring group, then demotions, collecting fired labels.
//  3. Map the score to a tier.
//  4. Resolve the category.
func (e *Engine) Infer(title, description, preferredCategory string) Result {
	text := strings.ToLower(title + " " + description)

	var (
		score    int
		triggers []string
	)
	for _, g := range e.groups {
		score, triggers = apply(g, text, score, triggers)
	}
	score, triggers = apply(e.demotions, text, score, triggers)

	res := Result{
		Priority: Tier(score),
		Category: e.category(text, preferredCategory),
		Score:    score,
		Triggers: triggers,
		Reason:   NoTriggersReason,
	}
	if len(triggers) > 0 {
		res.Reason = strings.Join(triggers, "; ")
	}
	return res
}

// Apply infers from r's text and fills r.Priority and r.Category when they
// are unset (zero priority, blank category). The full Result is returned.
func (e *Engine) Apply(r *request.Request) Result {
	res := e.Infer(r.Title, r.Description, r.Category)
	if r.Priority == 0 {
		r.Priority = res.Priority
	}
	if strings.TrimSpace(r.Category) == "" {
		r.Category = res.Category
	}
	return res
}

// Tier maps a score to a priority tier (1 = most urgent).
func Tier(score int) int {
	switch {
	case score >= TierOneScore:
		return 1
	case score >= TierTwoScore:
		return 2
	default:
		return 3
	}
}

func (e *Engine) category(text, preferred string) string {
	if p := strings.TrimSpace(preferred); p != "" {
		return p
	}
	for _, g := range e.categories {
		for _, kw := range g.Keywords {
			if strings.Contains(text, kw) {
				return g.Category
			}
		}
	}
	return DefaultCategory
}

// apply adds every fired rule of g to score and triggers.
func apply(g RuleGroup, text string, score int, triggers []string) (int, []string) {
	for _, r := range g.Rules {
		if r.Trigger == "" || !strings.Contains(text, r.Trigger) {
			continue
		}
		score += r.Weight
		triggers = append(triggers, label(g.Name, r))
	}
	return score, triggers
}

// label renders `critical hazard: "gas leak" (+5)`.
func label(group string, r Rule) string {
	return fmt.Sprintf("%s: %q (%+d)", group, r.Trigger, r.Weight)
}

func normalizeGroup(g RuleGroup) RuleGroup {
	rules := make([]Rule, len(g.Rules))
	for i, r := range g.Rules {
		rules[i] = Rule{Trigger: strings.ToLower(r.Trigger), Weight: r.Weight}
	}
	return RuleGroup{Name: g.Name, Rules: rules}
}
