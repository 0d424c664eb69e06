// Package validation holds the shape and range checks shared by the match
// store and the interaction endpoint.
package validation

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/models"
)

const (
	MinAge         = 18
	MaxAge         = 100
	MaxMessageLen  = 1000
	errInvalidID   = "Invalid match ID"
	errBadMatchRec = "Invalid stored match"
)

// Profile checks the required fields of a profile
func Profile(p models.Profile) error {
	if p.ID <= 0 {
		return apperr.Validation("id", "Profile must have a valid ID")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("name", "Profile must have a valid name")
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return apperr.Validation("age", "Profile must have a valid age (18-100)")
	}
	if p.Image == "" {
		return apperr.Validation("image", "Profile must have a valid image URL")
	}
	return nil
}

// MatchID checks a match identifier supplied by a caller
func MatchID(id string) error {
	if id == "" {
		return apperr.Validation("id", errInvalidID)
	}
	return nil
}

// MessageText checks a message body and returns it trimmed
func MessageText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperr.Validation("text", "Message text is required")
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		return "", apperr.Validation("text", "Message too long (max 1000 characters)")
	}
	return trimmed, nil
}

// StoredMatch checks one persisted record and decodes it. The JSON kinds are
// checked before decoding so that, for example, a string matchedAt is
// rejected instead of silently zeroed.
func StoredMatch(raw json.RawMessage) (models.Match, error) {
	var shape map[string]any
	if err := json.Unmarshal(raw, &shape); err != nil || shape == nil {
		return models.Match{}, apperr.Validation("", errBadMatchRec)
	}

	if id, ok := shape["id"].(string); !ok || id == "" {
		return models.Match{}, apperr.Validation("id", errBadMatchRec)
	}
	profile, ok := shape["profile"].(map[string]any)
	if !ok {
		return models.Match{}, apperr.Validation("profile", errBadMatchRec)
	}
	if at, ok := shape["matchedAt"].(float64); !ok || at == 0 {
		return models.Match{}, apperr.Validation("matchedAt", errBadMatchRec)
	}
	if _, ok := shape["isUnmatched"].(bool); !ok {
		return models.Match{}, apperr.Validation("isUnmatched", errBadMatchRec)
	}
	if err := profileShape(profile); err != nil {
		return models.Match{}, err
	}

	var m models.Match
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.Match{}, apperr.Wrap(apperr.ValidationKind, err, errBadMatchRec)
	}
	if err := Profile(m.Profile); err != nil {
		return models.Match{}, err
	}
	return m, nil
}

func profileShape(p map[string]any) error {
	numeric := []string{"id", "age"}
	for _, f := range numeric {
		if _, ok := p[f].(float64); !ok {
			return apperr.Validation(f, errBadMatchRec)
		}
	}
	for _, f := range []string{"name", "image"} {
		if _, ok := p[f].(string); !ok {
			return apperr.Validation(f, errBadMatchRec)
		}
	}
	return nil
}
