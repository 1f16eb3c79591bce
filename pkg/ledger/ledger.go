// Package ledger provides the production ledger orchestrating
// inspection and packing
package ledger

import (
	"fmt"
	"math"
	"sync"

	"github.com/packline/packline/pkg/boxes"
	"github.com/packline/packline/pkg/logger"
	"github.com/packline/packline/pkg/quality"
	"github.com/packline/packline/pkg/types"
)

// Ledger owns every part registered during a run, partitioned into
// approved and rejected views, plus the box sequence through its
// packer. IDs are assigned monotonically from 1 and never reused,
// even after removal. State lives for one process run only.
//
// A single mutex guards every operation: register and remove touch
// the master list, a derived list and the box sequence together, and
// those updates must be observed as one transaction.
type Ledger struct {
	mu sync.Mutex

	evaluator *quality.Evaluator
	packer    *boxes.Packer
	logger    logger.Logger

	parts    []*types.Part
	approved []*types.Part
	rejected []*types.Part
	nextID   int
}

// New creates an empty ledger using the given configuration
func New(cfg *types.PacklineConfig, log logger.Logger) *Ledger {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	return &Ledger{
		evaluator: quality.NewEvaluator(cfg.Quality),
		packer:    boxes.NewPacker(cfg.Packing.BoxCapacity, log),
		logger:    log,
		nextID:    1,
	}
}

// Register creates a part with the next ID, inspects it, and routes it
// to the approved or rejected view. Approved parts are handed to the
// packer immediately. The verdict is permanent for the part's lifetime.
func (l *Ledger) Register(weight float64, color string, length float64) (*types.Part, quality.Verdict) {
	l.mu.Lock()
	defer l.mu.Unlock()

	part := types.NewPart(l.nextID, weight, color, length)
	l.nextID++
	l.parts = append(l.parts, part)

	verdict := l.evaluator.Evaluate(part.Weight, part.Color, part.Length)
	part.Approved = verdict.Passed
	part.Violations = verdict.Violations

	if verdict.Passed {
		l.approved = append(l.approved, part)
		box := l.packer.Place(part)
		if l.logger != nil {
			l.logger.Success("Part approved",
				logger.WithField("part", part.ID),
				logger.WithField("box", box.ID))
		}
	} else {
		l.rejected = append(l.rejected, part)
		if l.logger != nil {
			l.logger.Info("Part rejected",
				logger.WithField("part", part.ID),
				logger.WithField("violations", len(verdict.Violations)))
		}
	}

	return part, verdict
}

// RemoveByID deletes a part from the master list, its derived view,
// and (for approved parts) its box. Returns ErrPartNotFound when no
// part has the given ID; in that case no collection is touched.
func (l *Ledger) RemoveByID(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, part := range l.parts {
		if part.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: #%d", ErrPartNotFound, id)
	}

	part := l.parts[idx]
	l.parts = append(l.parts[:idx], l.parts[idx+1:]...)

	if part.Approved {
		l.approved = removePart(l.approved, part.ID)
		l.packer.Remove(part)
	} else {
		l.rejected = removePart(l.rejected, part.ID)
	}

	if l.logger != nil {
		l.logger.Info("Part removed", logger.WithField("part", part.ID))
	}

	return nil
}

func removePart(parts []*types.Part, id int) []*types.Part {
	for i, part := range parts {
		if part.ID == id {
			return append(parts[:i], parts[i+1:]...)
		}
	}
	return parts
}

// FindByID returns the part with the given ID, or nil when absent.
// A miss is not an error.
func (l *Ledger) FindByID(id int) *types.Part {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, part := range l.parts {
		if part.ID == id {
			return part
		}
	}
	return nil
}

// Parts returns a snapshot of all registered parts in registration order
func (l *Ledger) Parts() []*types.Part {
	l.mu.Lock()
	defer l.mu.Unlock()
	return snapshot(l.parts)
}

// Approved returns a snapshot of approved parts in registration order
func (l *Ledger) Approved() []*types.Part {
	l.mu.Lock()
	defer l.mu.Unlock()
	return snapshot(l.approved)
}

// Rejected returns a snapshot of rejected parts in registration order
func (l *Ledger) Rejected() []*types.Part {
	l.mu.Lock()
	defer l.mu.Unlock()
	return snapshot(l.rejected)
}

func snapshot(parts []*types.Part) []*types.Part {
	out := make([]*types.Part, len(parts))
	copy(out, parts)
	return out
}

// Boxes returns a snapshot of the box sequence in creation order
func (l *Ledger) Boxes() []*types.Box {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.packer.Boxes()
}

// ClosedBoxes returns the closed boxes in creation order
func (l *Ledger) ClosedBoxes() []*types.Box {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.packer.ClosedBoxes()
}

// CurrentBox returns the box the next approved part would land in,
// or nil when no box is open
func (l *Ledger) CurrentBox() *types.Box {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.packer.Current()
}

// Stats summarizes the run. Derived on demand, never stored.
type Stats struct {
	Total       int
	Approved    int
	Rejected    int
	ApprovedPct float64
	RejectedPct float64
	Boxes       int
	ClosedBoxes int
}

// Stats computes aggregate counts and percentages over the current state
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := len(l.parts)
	return Stats{
		Total:       total,
		Approved:    len(l.approved),
		Rejected:    len(l.rejected),
		ApprovedPct: Percentage(len(l.approved), total),
		RejectedPct: Percentage(len(l.rejected), total),
		Boxes:       l.packer.Count(),
		ClosedBoxes: len(l.packer.ClosedBoxes()),
	}
}

// Percentage returns part/total as a percentage rounded to one decimal
// place. A zero total yields 0, not an error.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
