package quality_test

import (
	"strings"
	"testing"

	"github.com/packline/packline/pkg/quality"
	"github.com/packline/packline/pkg/types"
)

func newEvaluator() *quality.Evaluator {
	return quality.NewEvaluator(types.DefaultConfig().Quality)
}

func TestEvaluate_Approved(t *testing.T) {
	e := newEvaluator()

	cases := []struct {
		name   string
		weight float64
		color  string
		length float64
	}{
		{"nominal", 100, "blue", 15},
		{"weight lower bound", 95, "blue", 15},
		{"weight upper bound", 105, "green", 15},
		{"length lower bound", 100, "green", 10},
		{"length upper bound", 100, "blue", 20},
		{"uppercase color", 100, "BLUE", 15},
		{"mixed case color", 100, "GrEeN", 15},
		{"padded color", 100, "  blue  ", 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := e.Evaluate(tc.weight, tc.color, tc.length)
			if !verdict.Passed {
				t.Errorf("expected pass, got violations %v", verdict.Reasons())
			}
			if len(verdict.Violations) != 0 {
				t.Errorf("passed verdict must carry zero violations, got %d", len(verdict.Violations))
			}
		})
	}
}

func TestEvaluate_Rejected(t *testing.T) {
	e := newEvaluator()

	cases := []struct {
		name   string
		weight float64
		color  string
		length float64
		rules  []types.RuleName
	}{
		{"underweight", 94.9, "blue", 15, []types.RuleName{types.RuleWeight}},
		{"overweight", 105.1, "blue", 15, []types.RuleName{types.RuleWeight}},
		{"bad color", 100, "purple", 15, []types.RuleName{types.RuleColor}},
		{"too short", 100, "blue", 9.9, []types.RuleName{types.RuleLength}},
		{"too long", 100, "blue", 20.1, []types.RuleName{types.RuleLength}},
		{"weight and color", 200, "purple", 15, []types.RuleName{types.RuleWeight, types.RuleColor}},
		{"all three", 200, "purple", 50, []types.RuleName{types.RuleWeight, types.RuleColor, types.RuleLength}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := e.Evaluate(tc.weight, tc.color, tc.length)
			if verdict.Passed {
				t.Fatal("expected rejection")
			}
			if len(verdict.Violations) != len(tc.rules) {
				t.Fatalf("expected %d violations, got %d: %v", len(tc.rules), len(verdict.Violations), verdict.Reasons())
			}
			for i, rule := range tc.rules {
				if verdict.Violations[i].Rule != rule {
					t.Errorf("violation %d: expected rule %s, got %s", i, rule, verdict.Violations[i].Rule)
				}
			}
		})
	}
}

func TestEvaluate_ViolationOrder(t *testing.T) {
	e := newEvaluator()

	verdict := e.Evaluate(0, "red", 0)

	expected := []types.RuleName{types.RuleWeight, types.RuleColor, types.RuleLength}
	for i, rule := range expected {
		if verdict.Violations[i].Rule != rule {
			t.Errorf("position %d: expected %s, got %s", i, rule, verdict.Violations[i].Rule)
		}
	}
}

func TestEvaluate_ConfigurableColors(t *testing.T) {
	e := quality.NewEvaluator(types.QualityConfig{
		Weight:        types.Range{Min: 95, Max: 105},
		AllowedColors: []string{"Azul", "VERDE"},
		Length:        types.Range{Min: 10, Max: 20},
	})

	if verdict := e.Evaluate(100, "azul", 15); !verdict.Passed {
		t.Errorf("azul should pass with localized allow-set, got %v", verdict.Reasons())
	}
	if verdict := e.Evaluate(100, "blue", 15); verdict.Passed {
		t.Error("blue should be rejected when only azul/verde are allowed")
	}

	colors := e.AllowedColors()
	if len(colors) != 2 || colors[0] != "azul" || colors[1] != "verde" {
		t.Errorf("expected normalized [azul verde], got %v", colors)
	}
}

func TestEvaluate_ReasonMessages(t *testing.T) {
	e := newEvaluator()

	verdict := e.Evaluate(200, "purple", 15)

	reasons := verdict.Reasons()
	if len(reasons) != 2 {
		t.Fatalf("expected 2 reasons, got %v", reasons)
	}
	if !strings.Contains(reasons[0], "200") || !strings.Contains(reasons[0], "95") {
		t.Errorf("weight reason should include value and bounds: %s", reasons[0])
	}
	if !strings.Contains(reasons[1], "purple") || !strings.Contains(reasons[1], "blue or green") {
		t.Errorf("color reason should include value and allow-set: %s", reasons[1])
	}
}
