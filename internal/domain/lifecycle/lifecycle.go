// Package lifecycle provides a small transition-table state machine shared by
// orders and support tickets. Legality of a status change is a table lookup,
// not scattered conditionals.
package lifecycle

// Machine validates transitions between states of type S.
type Machine[S comparable] struct {
	transitions map[S]map[S]bool
}

// New builds a machine from an adjacency list of allowed transitions.
func New[S comparable](allowed map[S][]S) *Machine[S] {
	transitions := make(map[S]map[S]bool, len(allowed))
	for from, targets := range allowed {
		set := make(map[S]bool, len(targets))
		for _, to := range targets {
			set[to] = true
		}
		transitions[from] = set
	}
	return &Machine[S]{transitions: transitions}
}

// CanTransition reports whether moving from one state to another is allowed.
// Self-transitions are never allowed.
func (m *Machine[S]) CanTransition(from, to S) bool {
	if from == to {
		return false
	}
	return m.transitions[from][to]
}

// Known reports whether the state appears in the table at all.
func (m *Machine[S]) Known(state S) bool {
	_, ok := m.transitions[state]
	return ok
}
