// Package fsm holds the small transition tables used by every status field.
package fsm

import (
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
)

// Machine is a transition table keyed by source state.
type Machine[S ~string] struct {
	entity      string
	transitions map[S]map[S]struct{}
}

// New builds a machine for the named entity. Self-transitions are only legal
// when listed explicitly.
func New[S ~string](entity string, table map[S][]S) *Machine[S] {
	m := &Machine[S]{
		entity:      entity,
		transitions: make(map[S]map[S]struct{}, len(table)),
	}
	for from, targets := range table {
		set := make(map[S]struct{}, len(targets))
		for _, to := range targets {
			set[to] = struct{}{}
		}
		m.transitions[from] = set
	}
	return m
}

// Can reports whether from -> to is a legal move.
func (m *Machine[S]) Can(from, to S) bool {
	_, ok := m.transitions[from][to]
	return ok
}

// Transition returns an InvalidTransition error when from -> to is illegal.
func (m *Machine[S]) Transition(from, to S) error {
	if !m.Can(from, to) {
		return apperrors.InvalidTransition(m.entity, string(from), string(to))
	}
	return nil
}

// Terminal reports whether no transition leaves the state.
func (m *Machine[S]) Terminal(s S) bool {
	return len(m.transitions[s]) == 0
}
