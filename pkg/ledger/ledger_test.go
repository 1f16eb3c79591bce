package ledger_test

import (
	"errors"
	"testing"

	"github.com/packline/packline/pkg/ledger"
	"github.com/packline/packline/pkg/types"
)

func newLedger() *ledger.Ledger {
	return ledger.New(types.DefaultConfig(), nil)
}

func TestRegister_AssignsMonotonicIDs(t *testing.T) {
	l := newLedger()

	for i := 1; i <= 5; i++ {
		part, _ := l.Register(100, "blue", 15)
		if part.ID != i {
			t.Errorf("expected id %d, got %d", i, part.ID)
		}
	}
}

func TestRegister_IDsNeverReusedAfterRemoval(t *testing.T) {
	l := newLedger()

	l.Register(100, "blue", 15)
	l.Register(100, "blue", 15)

	if err := l.RemoveByID(2); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	part, _ := l.Register(100, "blue", 15)
	if part.ID != 3 {
		t.Errorf("expected id 3 after removing id 2, got %d", part.ID)
	}
}

func TestRegister_RoutesByVerdict(t *testing.T) {
	l := newLedger()

	good, verdict := l.Register(100, "blue", 15)
	if !verdict.Passed || !good.Approved {
		t.Error("in-tolerance part should be approved")
	}
	if good.BoxID != 1 {
		t.Errorf("approved part should be packed into box 1, got %d", good.BoxID)
	}

	bad, verdict := l.Register(200, "blue", 15)
	if verdict.Passed || bad.Approved {
		t.Error("overweight part should be rejected")
	}
	if bad.BoxID != 0 {
		t.Error("rejected part must not be boxed")
	}
	if len(bad.Violations) != 1 {
		t.Errorf("expected 1 violation, got %v", bad.Reasons())
	}

	if got := len(l.Approved()); got != 1 {
		t.Errorf("expected 1 approved part, got %d", got)
	}
	if got := len(l.Rejected()); got != 1 {
		t.Errorf("expected 1 rejected part, got %d", got)
	}
	if got := len(l.Parts()); got != 2 {
		t.Errorf("expected 2 parts total, got %d", got)
	}
}

func TestRegister_TenApprovedPartsCloseOneBox(t *testing.T) {
	l := newLedger()

	for i := 0; i < 10; i++ {
		l.Register(100, "green", 15)
	}

	boxes := l.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("expected exactly 1 box, got %d", len(boxes))
	}
	if !boxes[0].Closed {
		t.Error("box should close at 10 parts")
	}

	ids := boxes[0].PartIDs()
	for i, id := range ids {
		if id != i+1 {
			t.Errorf("box order must follow registration order, got %v", ids)
			break
		}
	}

	l.Register(100, "green", 15)
	if len(l.Boxes()) != 2 {
		t.Error("11th approved part should open a second box")
	}
}

func TestRemoveByID_NotFoundLeavesStateUntouched(t *testing.T) {
	l := newLedger()
	l.Register(100, "blue", 15)
	l.Register(300, "red", 5)

	before := struct {
		parts, approved, rejected, boxes int
	}{len(l.Parts()), len(l.Approved()), len(l.Rejected()), len(l.Boxes())}

	err := l.RemoveByID(99)
	if !errors.Is(err, ledger.ErrPartNotFound) {
		t.Fatalf("expected ErrPartNotFound, got %v", err)
	}

	if len(l.Parts()) != before.parts ||
		len(l.Approved()) != before.approved ||
		len(l.Rejected()) != before.rejected ||
		len(l.Boxes()) != before.boxes {
		t.Error("failed removal must leave every collection unchanged")
	}
}

func TestRemoveByID_ApprovedPartLeavesBox(t *testing.T) {
	l := newLedger()
	part, _ := l.Register(100, "blue", 15)

	if err := l.RemoveByID(part.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if len(l.Boxes()) != 0 {
		t.Error("removing the only packed part should delete its box")
	}
	if l.CurrentBox() != nil {
		t.Error("current box should be nil when the only box is deleted")
	}
	if l.FindByID(part.ID) != nil {
		t.Error("removed part should not be findable")
	}
}

func TestRemoveByID_RejectedPart(t *testing.T) {
	l := newLedger()
	part, _ := l.Register(300, "blue", 15)

	if err := l.RemoveByID(part.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(l.Rejected()) != 0 {
		t.Error("rejected view should be empty after removal")
	}
}

func TestFindByID(t *testing.T) {
	l := newLedger()
	l.Register(100, "blue", 15)

	if part := l.FindByID(1); part == nil || part.ID != 1 {
		t.Error("expected to find part 1")
	}
	if part := l.FindByID(42); part != nil {
		t.Error("missing id should return nil, not an error")
	}
}

func TestSnapshots_AreIndependent(t *testing.T) {
	l := newLedger()
	l.Register(100, "blue", 15)
	l.Register(100, "green", 15)

	approved := l.Approved()
	approved[0] = nil
	_ = append(approved, (*types.Part)(nil))

	fresh := l.Approved()
	if len(fresh) != 2 || fresh[0] == nil {
		t.Error("mutating a snapshot must not affect ledger state")
	}
}

func TestStats(t *testing.T) {
	l := newLedger()
	l.Register(100, "blue", 15)
	l.Register(100, "green", 15)
	l.Register(100, "red", 15)
	l.Register(500, "blue", 15)

	stats := l.Stats()
	if stats.Total != 4 || stats.Approved != 2 || stats.Rejected != 2 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.ApprovedPct != 50.0 {
		t.Errorf("expected 50.0%% approved, got %v", stats.ApprovedPct)
	}
	if stats.Boxes != 1 || stats.ClosedBoxes != 0 {
		t.Errorf("unexpected box counts: %+v", stats)
	}
}

func TestStats_EmptyLedger(t *testing.T) {
	stats := newLedger().Stats()

	if stats.Total != 0 {
		t.Errorf("expected zero total, got %d", stats.Total)
	}
	if stats.ApprovedPct != 0 || stats.RejectedPct != 0 {
		t.Error("percentage of zero total must be zero")
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		part, total int
		expected    float64
	}{
		{0, 0, 0},
		{3, 10, 30.0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{10, 10, 100.0},
	}

	for _, tc := range cases {
		if got := ledger.Percentage(tc.part, tc.total); got != tc.expected {
			t.Errorf("Percentage(%d, %d) = %v, expected %v", tc.part, tc.total, got, tc.expected)
		}
	}
}
