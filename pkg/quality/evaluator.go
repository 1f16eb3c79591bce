// Package quality provides part inspection against tolerance rules
package quality

import (
	"fmt"
	"strings"

	"github.com/packline/packline/pkg/types"
)

// Verdict is the outcome of inspecting one part. Passed is true iff
// Violations is empty.
type Verdict struct {
	Passed     bool
	Violations []types.Violation
}

// Reasons returns the violation messages in rule order
func (v Verdict) Reasons() []string {
	reasons := make([]string, len(v.Violations))
	for i, violation := range v.Violations {
		reasons[i] = violation.Message
	}
	return reasons
}

// Evaluator applies the configured tolerance rules to part attributes.
// It holds no mutable state; Evaluate is a pure function of its inputs.
type Evaluator struct {
	weight        types.Range
	length        types.Range
	allowedColors map[string]bool
	colorList     []string
}

// NewEvaluator creates an evaluator from quality configuration.
// Allowed colors are matched case-insensitively.
func NewEvaluator(cfg types.QualityConfig) *Evaluator {
	allowed := make(map[string]bool, len(cfg.AllowedColors))
	colors := make([]string, 0, len(cfg.AllowedColors))
	for _, c := range cfg.AllowedColors {
		normalized := strings.ToLower(strings.TrimSpace(c))
		if normalized == "" || allowed[normalized] {
			continue
		}
		allowed[normalized] = true
		colors = append(colors, normalized)
	}

	return &Evaluator{
		weight:        cfg.Weight,
		length:        cfg.Length,
		allowedColors: allowed,
		colorList:     colors,
	}
}

// Evaluate checks weight, color and length against the tolerance rules.
// Every violated rule contributes exactly one violation, in the fixed
// order weight, color, length; rules are independent of each other.
func (e *Evaluator) Evaluate(weight float64, color string, length float64) Verdict {
	var violations []types.Violation

	if !e.weight.Contains(weight) {
		violations = append(violations, types.Violation{
			Rule: types.RuleWeight,
			Message: fmt.Sprintf("weight out of tolerance (%gg - expected: %gg to %gg)",
				weight, e.weight.Min, e.weight.Max),
		})
	}

	if !e.allowedColors[strings.ToLower(strings.TrimSpace(color))] {
		violations = append(violations, types.Violation{
			Rule: types.RuleColor,
			Message: fmt.Sprintf("invalid color (%s - expected: %s)",
				strings.ToLower(strings.TrimSpace(color)), strings.Join(e.colorList, " or ")),
		})
	}

	if !e.length.Contains(length) {
		violations = append(violations, types.Violation{
			Rule: types.RuleLength,
			Message: fmt.Sprintf("length out of tolerance (%gcm - expected: %gcm to %gcm)",
				length, e.length.Min, e.length.Max),
		})
	}

	return Verdict{
		Passed:     len(violations) == 0,
		Violations: violations,
	}
}

// AllowedColors returns the normalized allow-set in configuration order
func (e *Evaluator) AllowedColors() []string {
	out := make([]string, len(e.colorList))
	copy(out, e.colorList)
	return out
}
