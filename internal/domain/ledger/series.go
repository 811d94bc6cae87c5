package ledger

import (
	"sort"
)

// SeriesKind distinguishes the two kinds of movement series
type SeriesKind string

const (
	SeriesKindRecorrente SeriesKind = "RECORRENTE" // Open-ended recurring definition
	SeriesKindParcelada  SeriesKind = "PARCELADA"  // Fixed-count installment purchase
)

// IsValid checks if the kind is a valid SeriesKind
func (k SeriesKind) IsValid() bool {
	return k == SeriesKindRecorrente || k == SeriesKindParcelada
}

// String returns the string representation of SeriesKind
func (k SeriesKind) String() string {
	return string(k)
}

// Scope selects which members of a series an edit or delete reaches
type Scope string

const (
	ScopeAtual   Scope = "ATUAL"   // Only the targeted occurrence
	ScopeFuturos Scope = "FUTUROS" // Targeted occurrence and all later-dated ones
	ScopeTodos   Scope = "TODOS"   // Every occurrence regardless of date
)

// IsValid checks if the scope is a valid Scope
func (s Scope) IsValid() bool {
	return s == ScopeAtual || s == ScopeFuturos || s == ScopeTodos
}

// String returns the string representation of Scope
func (s Scope) String() string {
	return string(s)
}

// SelectByScope resolves the member set reached by a scoped operation.
// Members must all share the target's series; ordering is by competence
// date, with the targeted movement always included. FUTUROS selects the
// target plus every member dated on or after it.
func SelectByScope(members []Movement, target *Movement, scope Scope) ([]Movement, error) {
	if !scope.IsValid() {
		return nil, ErrScopeConflict
	}
	if !target.IsSeriesMember() {
		return nil, ErrScopeConflict
	}
	if target.CompetenceDate.IsZero() {
		return nil, ErrInsufficientData
	}

	switch scope {
	case ScopeAtual:
		return []Movement{*target}, nil
	case ScopeTodos:
		selected := make([]Movement, len(members))
		copy(selected, members)
		sortByCompetence(selected)
		return selected, nil
	default: // ScopeFuturos
		selected := make([]Movement, 0, len(members))
		for _, m := range members {
			if m.CompetenceDate.IsZero() {
				return nil, ErrInsufficientData
			}
			if m.ID == target.ID || !m.CompetenceDate.Before(target.CompetenceDate) {
				selected = append(selected, m)
			}
		}
		sortByCompetence(selected)
		return selected, nil
	}
}

func sortByCompetence(movements []Movement) {
	sort.Slice(movements, func(i, j int) bool {
		return movements[i].CompetenceDate.Before(movements[j].CompetenceDate)
	})
}
