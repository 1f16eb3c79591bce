// Package boxes manages the packing of approved parts into boxes
package boxes

import (
	"github.com/packline/packline/pkg/logger"
	"github.com/packline/packline/pkg/types"
)

// Packer owns the box sequence. Boxes are created lazily when an
// approved part arrives and no open box has room, close automatically
// at capacity, reopen when a part is removed, and are deleted when
// their last part is removed. Box IDs are sequential from 1 and never
// reused after deletion.
//
// The packer is not safe for concurrent use on its own; the ledger
// serializes access.
type Packer struct {
	capacity  int
	boxes     []*types.Box
	current   *types.Box
	nextBoxID int
	logger    logger.Logger
}

// NewPacker creates a packer with the given box capacity
func NewPacker(capacity int, log logger.Logger) *Packer {
	if capacity <= 0 {
		capacity = types.DefaultBoxCapacity
	}
	return &Packer{
		capacity:  capacity,
		nextBoxID: 1,
		logger:    log,
	}
}

// Place stores an approved part in the current box, opening a new box
// first if there is none or the current one is full. The part's box
// reference is set, and the box is closed once it reaches capacity.
func (p *Packer) Place(part *types.Part) *types.Box {
	if p.current == nil || p.current.IsFull() {
		p.openBox()
	}

	p.current.Parts = append(p.current.Parts, part)
	part.BoxID = p.current.ID

	if p.current.IsFull() {
		p.current.Closed = true
		if p.logger != nil {
			p.logger.Info("Box closed at capacity",
				logger.WithField("box", p.current.ID),
				logger.WithField("parts", len(p.current.Parts)))
		}
	}

	return p.current
}

func (p *Packer) openBox() {
	box := &types.Box{
		ID:       p.nextBoxID,
		Capacity: p.capacity,
	}
	p.nextBoxID++
	p.boxes = append(p.boxes, box)
	p.current = box

	if p.logger != nil {
		p.logger.Debug("Opened new box", logger.WithField("box", box.ID))
	}
}

// Remove takes a part out of its box, using the part's box reference
// as the lookup key. A closed box reopens since it now has room; a box
// emptied by the removal is deleted from the sequence, and if it was
// the current box, current falls back to the last remaining box.
// Returns false if the part is not in any box.
func (p *Packer) Remove(part *types.Part) bool {
	if part.BoxID == 0 {
		return false
	}

	box := p.findBox(part.BoxID)
	if box == nil {
		return false
	}

	removed := false
	for i, held := range box.Parts {
		if held.ID == part.ID {
			box.Parts = append(box.Parts[:i], box.Parts[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		return false
	}

	part.BoxID = 0
	if box.Closed {
		box.Closed = false
		if p.logger != nil {
			p.logger.Info("Box reopened", logger.WithField("box", box.ID))
		}
	}

	if box.IsEmpty() {
		p.deleteBox(box)
	}

	return true
}

func (p *Packer) findBox(id int) *types.Box {
	for _, box := range p.boxes {
		if box.ID == id {
			return box
		}
	}
	return nil
}

func (p *Packer) deleteBox(box *types.Box) {
	for i, b := range p.boxes {
		if b.ID == box.ID {
			p.boxes = append(p.boxes[:i], p.boxes[i+1:]...)
			break
		}
	}

	if p.current == box {
		if len(p.boxes) > 0 {
			p.current = p.boxes[len(p.boxes)-1]
		} else {
			p.current = nil
		}
	}

	if p.logger != nil {
		p.logger.Debug("Deleted empty box", logger.WithField("box", box.ID))
	}
}

// Boxes returns a snapshot of the box sequence in creation order
func (p *Packer) Boxes() []*types.Box {
	out := make([]*types.Box, len(p.boxes))
	copy(out, p.boxes)
	return out
}

// ClosedBoxes returns the closed boxes in creation order
func (p *Packer) ClosedBoxes() []*types.Box {
	var closed []*types.Box
	for _, box := range p.boxes {
		if box.Closed {
			closed = append(closed, box)
		}
	}
	return closed
}

// Current returns the current box, or nil when no box is open
func (p *Packer) Current() *types.Box {
	return p.current
}

// Count returns the number of boxes in the sequence
func (p *Packer) Count() int {
	return len(p.boxes)
}

// Capacity returns the configured per-box capacity
func (p *Packer) Capacity() int {
	return p.capacity
}
