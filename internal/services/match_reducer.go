package services

import "swipe-match-backend/internal/models"

// MatchState is the full state of the match store. Matches is ordered
// most-recent-first and includes unmatched records.
type MatchState struct {
	Matches []models.Match
	Loading bool
	Error   string
}

// Active returns the matches that have not been unmatched, in order
func (s MatchState) Active() []models.Match {
	out := make([]models.Match, 0, len(s.Matches))
	for _, m := range s.Matches {
		if !m.IsUnmatched {
			out = append(out, m)
		}
	}
	return out
}

// MatchAction is one of the state transitions accepted by ReduceMatches
type MatchAction interface {
	matchAction()
}

type (
	// SetMatches replaces the collection and ends loading
	SetMatches struct{ Matches []models.Match }
	// AddMatch prepends a new match
	AddMatch struct{ Match models.Match }
	// Unmatch flags the match with ID as unmatched
	Unmatch struct{ ID string }
	// AddMessage replaces the last message of the match with ID
	AddMessage struct {
		ID      string
		Message models.LastMessage
	}
	// SetLoading sets the loading flag
	SetLoading struct{ Loading bool }
	// SetError sets the user-facing error and ends loading. An empty
	// message clears the error.
	SetError struct{ Message string }
	// ClearMatches empties the collection
	ClearMatches struct{}
)

func (SetMatches) matchAction()   {}
func (AddMatch) matchAction()     {}
func (Unmatch) matchAction()      {}
func (AddMessage) matchAction()   {}
func (SetLoading) matchAction()   {}
func (SetError) matchAction()     {}
func (ClearMatches) matchAction() {}

// ReduceMatches applies action to state and returns the new state. It never
// modifies the slice held by state, so earlier snapshots stay valid.
func ReduceMatches(state MatchState, action MatchAction) MatchState {
	switch a := action.(type) {
	case SetMatches:
		state.Matches = append([]models.Match(nil), a.Matches...)
		state.Loading = false
	case AddMatch:
		next := make([]models.Match, 0, len(state.Matches)+1)
		next = append(next, a.Match)
		state.Matches = append(next, state.Matches...)
	case Unmatch:
		state.Matches = mapMatch(state.Matches, a.ID, func(m *models.Match) {
			m.IsUnmatched = true
		})
	case AddMessage:
		state.Matches = mapMatch(state.Matches, a.ID, func(m *models.Match) {
			msg := a.Message
			m.LastMessage = &msg
		})
	case SetLoading:
		state.Loading = a.Loading
	case SetError:
		state.Error = a.Message
		state.Loading = false
	case ClearMatches:
		state.Matches = []models.Match{}
	}
	return state
}

// changesMatches reports whether action can alter the match collection
func changesMatches(action MatchAction) bool {
	switch action.(type) {
	case SetMatches, AddMatch, Unmatch, AddMessage, ClearMatches:
		return true
	}
	return false
}

func mapMatch(matches []models.Match, id string, edit func(m *models.Match)) []models.Match {
	out := make([]models.Match, len(matches))
	copy(out, matches)
	for i := range out {
		if out[i].ID == id {
			edit(&out[i])
		}
	}
	return out
}
