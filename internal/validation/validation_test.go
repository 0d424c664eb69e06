package validation_test

import (
	"encoding/json"
	"strings"
	"testing"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() models.Profile {
	return models.Profile{ID: 1, Name: "Ana", Age: 25, Image: "/img.png"}
}

func TestProfile(t *testing.T) {
	require.NoError(t, validation.Profile(validProfile()))

	tests := []struct {
		name  string
		edit  func(p *models.Profile)
		field string
	}{
		{"zero id", func(p *models.Profile) { p.ID = 0 }, "id"},
		{"negative id", func(p *models.Profile) { p.ID = -3 }, "id"},
		{"empty name", func(p *models.Profile) { p.Name = "" }, "name"},
		{"blank name", func(p *models.Profile) { p.Name = "   " }, "name"},
		{"too young", func(p *models.Profile) { p.Age = 17 }, "age"},
		{"too old", func(p *models.Profile) { p.Age = 101 }, "age"},
		{"no image", func(p *models.Profile) { p.Image = "" }, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.edit(&p)

			err := validation.Profile(p)

			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.ValidationKind))
			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.field, ae.Field)
		})
	}

	t.Run("age bounds inclusive", func(t *testing.T) {
		p := validProfile()
		p.Age = 18
		assert.NoError(t, validation.Profile(p))
		p.Age = 100
		assert.NoError(t, validation.Profile(p))
	})
}

func TestMessageText(t *testing.T) {
	text, err := validation.MessageText("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = validation.MessageText("")
	assert.True(t, apperr.Is(err, apperr.ValidationKind))
	_, err = validation.MessageText(" \t\n")
	assert.True(t, apperr.Is(err, apperr.ValidationKind))

	_, err = validation.MessageText(strings.Repeat("a", 1000))
	assert.NoError(t, err)
	_, err = validation.MessageText(strings.Repeat("a", 1001))
	assert.True(t, apperr.Is(err, apperr.ValidationKind))

	// Limit counts characters, not bytes.
	_, err = validation.MessageText(strings.Repeat("é", 1000))
	assert.NoError(t, err)
}

func TestMatchID(t *testing.T) {
	assert.NoError(t, validation.MatchID("match_1_x"))
	assert.True(t, apperr.Is(validation.MatchID(""), apperr.ValidationKind))
}

func TestStoredMatch(t *testing.T) {
	good := `{"id":"m1","profile":{"id":1,"name":"Ana","age":25,"image":"/a.png"},"matchedAt":1700000000000,"isUnmatched":false}`

	m, err := validation.StoredMatch(json.RawMessage(good))
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, int64(1700000000000), m.MatchedAt)
	assert.Equal(t, "Ana", m.Profile.Name)
	assert.Nil(t, m.LastMessage)

	bad := map[string]string{
		"not an object":       `[1,2]`,
		"null":                `null`,
		"missing id":          `{"profile":{"id":1,"name":"Ana","age":25,"image":"/a.png"},"matchedAt":1,"isUnmatched":false}`,
		"numeric id":          `{"id":7,"profile":{"id":1,"name":"Ana","age":25,"image":"/a.png"},"matchedAt":1,"isUnmatched":false}`,
		"profile not object":  `{"id":"m","profile":"Ana","matchedAt":1,"isUnmatched":false}`,
		"string matchedAt":    `{"id":"m","profile":{"id":1,"name":"Ana","age":25,"image":"/a.png"},"matchedAt":"1","isUnmatched":false}`,
		"zero matchedAt":      `{"id":"m","profile":{"id":1,"name":"Ana","age":25,"image":"/a.png"},"matchedAt":0,"isUnmatched":false}`,
		"missing isUnmatched": `{"id":"m","profile":{"id":1,"name":"Ana","age":25,"image":"/a.png"},"matchedAt":1}`,
		"string profile id":   `{"id":"m","profile":{"id":"1","name":"Ana","age":25,"image":"/a.png"},"matchedAt":1,"isUnmatched":false}`,
		"fractional id":       `{"id":"m","profile":{"id":1.5,"name":"Ana","age":25,"image":"/a.png"},"matchedAt":1,"isUnmatched":false}`,
		"underage profile":    `{"id":"m","profile":{"id":1,"name":"Ana","age":12,"image":"/a.png"},"matchedAt":1,"isUnmatched":false}`,
		"image not string":    `{"id":"m","profile":{"id":1,"name":"Ana","age":25,"image":123},"matchedAt":1,"isUnmatched":false}`,
	}
	for name, raw := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := validation.StoredMatch(json.RawMessage(raw))
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.ValidationKind))
		})
	}
}
