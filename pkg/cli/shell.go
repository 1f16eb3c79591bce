package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/packline/packline/pkg/ledger"
	"github.com/packline/packline/pkg/report"
	"github.com/packline/packline/pkg/types"
)

const menuSeparator = "======================================================================"

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive quality-control session",
		Long: `Start an interactive session over one in-memory production run.
Parts registered during the session live until the session ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			return runShell(eng, os.Stdin, os.Stdout)
		},
	}
}

// shell is a thin dispatcher over the engine: it parses menu choices
// and renders results, and never lets a bad input end the session
type shell struct {
	eng *engine
	in  *bufio.Scanner
	out io.Writer
}

func runShell(eng *engine, in io.Reader, out io.Writer) error {
	s := &shell{
		eng: eng,
		in:  bufio.NewScanner(in),
		out: out,
	}
	return s.run()
}

func (s *shell) run() error {
	for {
		s.printMenu()

		choice, ok := s.prompt("Choose an option: ")
		if !ok {
			// Input closed; end the session like an explicit quit.
			fmt.Fprintln(s.out, "\nSession ended.")
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			s.registerPart()
		case "2":
			s.listParts()
		case "3":
			s.removePart()
		case "4":
			s.listClosedBoxes()
		case "5":
			s.report()
		case "6":
			s.importBatch()
		case "0":
			fmt.Fprintln(s.out, "\nSession ended. Thanks for keeping the line clean!")
			return nil
		default:
			fmt.Fprintln(s.out, "\nInvalid option. Choose 0-6.")
		}
	}
}

func (s *shell) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, menuSeparator)
	fmt.Fprintln(s.out, "🏭 PACKLINE QUALITY CONTROL")
	fmt.Fprintln(s.out, menuSeparator)
	fmt.Fprintln(s.out, "  1. Register part")
	fmt.Fprintln(s.out, "  2. List parts")
	fmt.Fprintln(s.out, "  3. Remove part")
	fmt.Fprintln(s.out, "  4. List closed boxes")
	fmt.Fprintln(s.out, "  5. Production report")
	fmt.Fprintln(s.out, "  6. Import CSV batch")
	fmt.Fprintln(s.out, "  0. Quit")
	fmt.Fprintln(s.out, menuSeparator)
}

// prompt reads one line; ok is false when input is exhausted
func (s *shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *shell) promptFloat(label string) (float64, error) {
	raw, ok := s.prompt(label)
	if !ok {
		return 0, io.EOF
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", strings.TrimSpace(raw))
	}
	return value, nil
}

func (s *shell) registerPart() {
	weight, err := s.promptFloat("Part weight (g): ")
	if err != nil {
		fmt.Fprintf(s.out, "\nError: %v\n", err)
		return
	}
	partColor, ok := s.prompt("Part color: ")
	if !ok {
		return
	}
	length, err := s.promptFloat("Part length (cm): ")
	if err != nil {
		fmt.Fprintf(s.out, "\nError: %v\n", err)
		return
	}

	part, verdict := s.eng.ledger.Register(weight, strings.TrimSpace(partColor), length)

	fmt.Fprintln(s.out)
	if verdict.Passed {
		fmt.Fprintln(s.out, color.GreenString("✅ PART APPROVED"))
		fmt.Fprintf(s.out, "%s\n", part)
		fmt.Fprintf(s.out, "Stored in Box #%d\n", part.BoxID)
	} else {
		fmt.Fprintln(s.out, color.RedString("❌ PART REJECTED"))
		fmt.Fprintf(s.out, "%s\n", part)
		fmt.Fprintln(s.out, "Rejection reasons:")
		for _, reason := range verdict.Reasons() {
			fmt.Fprintf(s.out, "  • %s\n", reason)
		}
	}
}

func (s *shell) listParts() {
	fmt.Fprintln(s.out, "\n  1. Approved parts")
	fmt.Fprintln(s.out, "  2. Rejected parts")
	fmt.Fprintln(s.out, "  3. All parts")

	choice, ok := s.prompt("\nOption: ")
	if !ok {
		return
	}

	switch strings.TrimSpace(choice) {
	case "1":
		s.printApproved(s.eng.ledger.Approved())
	case "2":
		s.printRejected(s.eng.ledger.Rejected())
	case "3":
		approved := s.eng.ledger.Approved()
		rejected := s.eng.ledger.Rejected()
		if len(approved)+len(rejected) == 0 {
			fmt.Fprintln(s.out, "\nNo parts registered.")
			return
		}
		s.printApproved(approved)
		s.printRejected(rejected)
	default:
		fmt.Fprintln(s.out, "\nInvalid option.")
	}
}

func (s *shell) printApproved(parts []*types.Part) {
	fmt.Fprintln(s.out, "\n✅ APPROVED PARTS")
	if len(parts) == 0 {
		fmt.Fprintln(s.out, "None.")
		return
	}
	fmt.Fprintf(s.out, "Total: %d part(s)\n", len(parts))
	for _, part := range parts {
		fmt.Fprintf(s.out, "  • %s | Box: #%d\n", part, part.BoxID)
	}
}

func (s *shell) printRejected(parts []*types.Part) {
	fmt.Fprintln(s.out, "\n❌ REJECTED PARTS")
	if len(parts) == 0 {
		fmt.Fprintln(s.out, "None.")
		return
	}
	fmt.Fprintf(s.out, "Total: %d part(s)\n", len(parts))
	for _, part := range parts {
		fmt.Fprintf(s.out, "  • %s\n", part)
		for _, reason := range part.Reasons() {
			fmt.Fprintf(s.out, "    └─ %s\n", reason)
		}
	}
}

func (s *shell) removePart() {
	raw, ok := s.prompt("\nPart ID to remove: ")
	if !ok {
		return
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintf(s.out, "\nError: %q is not a valid ID\n", strings.TrimSpace(raw))
		return
	}

	part := s.eng.ledger.FindByID(id)
	if part == nil {
		fmt.Fprintf(s.out, "\nPart #%d not found.\n", id)
		return
	}

	status := "REJECTED"
	if part.Approved {
		status = "APPROVED"
	}
	fmt.Fprintf(s.out, "\nFound: %s\nStatus: %s\n", part, status)

	confirm, ok := s.prompt("Confirm removal? (y/N): ")
	if !ok || !strings.EqualFold(strings.TrimSpace(confirm), "y") {
		fmt.Fprintln(s.out, "\nRemoval cancelled.")
		return
	}

	if err := s.eng.ledger.RemoveByID(id); err != nil {
		if errors.Is(err, ledger.ErrPartNotFound) {
			fmt.Fprintf(s.out, "\nPart #%d not found.\n", id)
		} else {
			fmt.Fprintf(s.out, "\nError removing part: %v\n", err)
		}
		return
	}
	fmt.Fprintln(s.out, "\n✅ Part removed.")
}

func (s *shell) listClosedBoxes() {
	closed := s.eng.ledger.ClosedBoxes()

	fmt.Fprintln(s.out, "\n📦 CLOSED BOXES")
	if len(closed) == 0 {
		fmt.Fprintln(s.out, "No closed boxes yet.")
		return
	}

	fmt.Fprintf(s.out, "Total: %d box(es)\n", len(closed))
	for _, box := range closed {
		fmt.Fprintf(s.out, "  • %s\n", box)
		ids := make([]string, 0, len(box.Parts))
		for _, id := range box.PartIDs() {
			ids = append(ids, strconv.Itoa(id))
		}
		fmt.Fprintf(s.out, "    └─ Part IDs: %s\n", strings.Join(ids, ", "))
	}
}

func (s *shell) report() {
	if err := report.NewGenerator(s.eng.ledger).Write(s.out); err != nil {
		fmt.Fprintf(s.out, "\nError generating report: %v\n", err)
	}
}

func (s *shell) importBatch() {
	path, ok := s.prompt("\nCSV file path: ")
	if !ok {
		return
	}
	path = strings.TrimSpace(path)
	if path == "" {
		fmt.Fprintln(s.out, "\nNo path given.")
		return
	}

	result, err := s.eng.importer.ImportFile(path)
	if err != nil {
		fmt.Fprintf(s.out, "\n❌ Batch aborted: %v\n", err)
		return
	}

	fmt.Fprintln(s.out)
	report.WriteBatchSummary(s.out, report.BatchOutcome{
		Processed: result.Processed,
		Approved:  result.Approved,
		Rejected:  result.Rejected,
		Errors:    result.ErrorMessages(),
	}, len(s.eng.ledger.Boxes()))
}
