package partialeq

import (
	"reflect"
	"testing"
)

func testPair(a, e *point) pair {
	_, aID := resolve(reflect.ValueOf(a))
	_, eID := resolve(reflect.ValueOf(e))
	return pair{actual: aID, expected: eID}
}

func TestLedger_ActivePairIsAssumedEqual(t *testing.T) {
	t.Parallel()
	l := newLedger()
	p := testPair(&point{}, &point{})

	fresh, known := l.enter(p, nil)
	if !fresh || known != nil {
		t.Fatalf("enter() = (%v, %v), want fresh", fresh, known)
	}
	fresh, known = l.enter(p, nil)
	if fresh || known != nil {
		t.Errorf("enter() on active pair = (%v, %v), want (false, nil)", fresh, known)
	}
}

func TestLedger_FailureRollsBackProvisionalMatches(t *testing.T) {
	t.Parallel()
	l := newLedger()
	outer := testPair(&point{}, &point{})
	inner := testPair(&point{}, &point{})
	failedInner := testPair(&point{}, &point{})

	mark := l.mark()
	l.enter(outer, nil)

	innerMark := l.mark()
	l.enter(inner, Path{}.field(NameKey("A")))
	l.leave(inner, innerMark, nil, 1)

	failMark := l.mark()
	l.enter(failedInner, Path{}.field(NameKey("B")))
	bad := &Mismatch{Path: Path{}.field(NameKey("B")).field(NameKey("X")), Reason: ValueMismatch}
	l.leave(failedInner, failMark, bad, 1)

	l.leave(outer, mark, &Mismatch{Path: bad.Path, Reason: ValueMismatch}, 0)

	if _, ok := l.visits[inner]; ok {
		t.Error("provisional match survived failure of its ancestor")
	}
	if v := l.visits[failedInner]; v.state != visitFailed {
		t.Errorf("failed pair state = %v, want failed", v.state)
	}
	if v := l.visits[outer]; v.state != visitFailed {
		t.Errorf("outer pair state = %v, want failed", v.state)
	}
	if len(l.journal) != mark {
		t.Errorf("journal length = %d, want %d", len(l.journal), mark)
	}
}

func TestLedger_ReplayRebasesPath(t *testing.T) {
	t.Parallel()
	l := newLedger()
	p := testPair(&point{}, &point{})
	first := Path{}.index(0)

	l.enter(p, first)
	l.leave(p, 0, &Mismatch{Path: first.field(NameKey("X")), Reason: ValueMismatch}, len(first))

	fresh, known := l.enter(p, Path{}.field(NameKey("ref")))
	if fresh || known == nil {
		t.Fatalf("enter() on failed pair = (%v, %v), want replayed mismatch", fresh, known)
	}
	if got := known.Path.String(); got != "$.ref.X" {
		t.Errorf("replayed path = %q, want %q", got, "$.ref.X")
	}
}

func TestLedger_MatchedPairIsReused(t *testing.T) {
	t.Parallel()
	l := newLedger()
	p := testPair(&point{}, &point{})
	l.enter(p, nil)
	l.leave(p, 0, nil, 0)

	if fresh, known := l.enter(p, nil); fresh || known != nil {
		t.Errorf("enter() on matched pair = (%v, %v), want (false, nil)", fresh, known)
	}
	if l.len() != 1 {
		t.Errorf("len() = %d, want 1", l.len())
	}
}
