package partialeq

// pair is the identity of both sides of a composite comparison.
type pair struct {
	actual, expected identity
}

type visitState uint8

const (
	visitActive visitState = iota + 1
	visitMatched
	visitFailed
)

type visit struct {
	state visitState

	// For failed visits: the mismatch and the path length at which it was
	// found, so it can be replayed under another path.
	mismatch *Mismatch
	depth    int
}

// ledger records the identity pairs compared during one top-level call.
//
// A pair that is met again while still active is a cycle and counts as a
// match. Outcomes are kept for the whole call, so shared substructure is
// compared once. A match found while some active pair was assumed to match
// is only provisional: when a pair fails, every entry recorded since it was
// entered is rolled back before the failure itself is stored.
type ledger struct {
	visits  map[pair]visit
	journal []pair
}

func newLedger() *ledger {
	return &ledger{visits: make(map[pair]visit)}
}

// enter starts the comparison of p. It returns true if p has to be compared;
// otherwise the known outcome is returned as a nil or non-nil mismatch, with
// a failure reported relative to path.
func (l *ledger) enter(p pair, path Path) (bool, *Mismatch) {
	v, ok := l.visits[p]
	if !ok {
		l.visits[p] = visit{state: visitActive}
		l.journal = append(l.journal, p)
		return true, nil
	}
	if v.state != visitFailed {
		return false, nil
	}
	return false, v.mismatch.rebase(v.depth, path)
}

// mark returns a journal position for leave.
func (l *ledger) mark() int { return len(l.journal) }

// leave finishes the comparison of p entered at mark.
func (l *ledger) leave(p pair, mark int, m *Mismatch, depth int) {
	if m == nil {
		l.visits[p] = visit{state: visitMatched}
		return
	}
	for _, q := range l.journal[mark:] {
		if l.visits[q].state != visitFailed {
			delete(l.visits, q)
		}
	}
	l.journal = l.journal[:mark]
	l.visits[p] = visit{state: visitFailed, mismatch: m, depth: depth}
}

// len returns the number of recorded pairs.
func (l *ledger) len() int { return len(l.visits) }
