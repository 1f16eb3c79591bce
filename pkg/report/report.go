// Package report renders consolidated production reports.
// It is pure formatting over ledger state; no decisions are made here.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/packline/packline/pkg/ledger"
	"github.com/packline/packline/pkg/types"
)

const separator = "======================================================================"

// Generator renders reports for a ledger
type Generator struct {
	ledger *ledger.Ledger
}

// NewGenerator creates a report generator over the given ledger
func NewGenerator(l *ledger.Ledger) *Generator {
	return &Generator{ledger: l}
}

// Write renders the consolidated production and quality report
func (g *Generator) Write(w io.Writer) error {
	stats := g.ledger.Stats()
	rejected := g.ledger.Rejected()
	boxes := g.ledger.Boxes()

	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("CONSOLIDATED PRODUCTION AND QUALITY REPORT"))
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\n📊 OVERALL:\n")
	fmt.Fprintf(w, "   Parts processed: %d\n", stats.Total)
	fmt.Fprintf(w, "   Approved: %s (%.1f%%)\n", color.GreenString("%d", stats.Approved), stats.ApprovedPct)
	fmt.Fprintf(w, "   Rejected: %s (%.1f%%)\n", color.RedString("%d", stats.Rejected), stats.RejectedPct)

	if len(rejected) > 0 {
		g.writeRejectionAnalysis(w, rejected)
	}

	fmt.Fprintf(w, "\n📦 STORAGE:\n")
	fmt.Fprintf(w, "   Boxes in use: %d\n", stats.Boxes)
	fmt.Fprintf(w, "   Closed boxes: %d\n", stats.ClosedBoxes)
	for _, box := range boxes {
		fmt.Fprintf(w, "   • %s\n", box)
		if !box.IsEmpty() {
			fmt.Fprintf(w, "     └─ Parts: %s\n", joinIDs(box.PartIDs()))
		}
	}

	if stats.Total > 0 {
		fmt.Fprintf(w, "\n✨ LINE EFFICIENCY: %.1f%%\n", stats.ApprovedPct)
	}

	fmt.Fprintln(w, separator)
	return nil
}

// writeRejectionAnalysis groups rejections by violated rule, most
// frequent first, then details each rejected part
func (g *Generator) writeRejectionAnalysis(w io.Writer, rejected []*types.Part) {
	counts := make(map[types.RuleName]int)
	for _, part := range rejected {
		for _, v := range part.Violations {
			counts[v.Rule]++
		}
	}

	rules := make([]types.RuleName, 0, len(counts))
	for rule := range counts {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(a, b int) bool {
		if counts[rules[a]] != counts[rules[b]] {
			return counts[rules[a]] > counts[rules[b]]
		}
		return rules[a] < rules[b]
	})

	fmt.Fprintf(w, "\n❌ REJECTION ANALYSIS:\n")
	for _, rule := range rules {
		fmt.Fprintf(w, "   • %s: %d occurrence(s)\n", rule, counts[rule])
	}

	fmt.Fprintf(w, "\n   Rejected part detail:\n")
	for _, part := range rejected {
		fmt.Fprintf(w, "   • %s\n", part)
		for _, reason := range part.Reasons() {
			fmt.Fprintf(w, "     └─ %s\n", reason)
		}
	}
}

// WriteBatchSummary renders the outcome of one batch import
func WriteBatchSummary(w io.Writer, result BatchOutcome, boxCount int) {
	fmt.Fprintf(w, "📊 Batch summary:\n")
	fmt.Fprintf(w, "   • Parts processed: %d\n", result.Processed)
	fmt.Fprintf(w, "   • Approved: %d (%.1f%%)\n", result.Approved, ledger.Percentage(result.Approved, result.Processed))
	fmt.Fprintf(w, "   • Rejected: %d (%.1f%%)\n", result.Rejected, ledger.Percentage(result.Rejected, result.Processed))
	fmt.Fprintf(w, "   • Boxes in use: %d\n", boxCount)

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\n⚠️  Problems found (%d):\n", len(result.Errors))
		shown := result.Errors
		const maxShown = 10
		if len(shown) > maxShown {
			shown = shown[:maxShown]
		}
		for _, msg := range shown {
			fmt.Fprintf(w, "   • %s\n", msg)
		}
		if extra := len(result.Errors) - maxShown; extra > 0 {
			fmt.Fprintf(w, "   ... and %d more error(s)\n", extra)
		}
	}
}

// BatchOutcome is the slice of a batch result the summary needs
type BatchOutcome struct {
	Processed int
	Approved  int
	Rejected  int
	Errors    []string
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
