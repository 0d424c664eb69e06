package codec_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/codec"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatches(n int) []models.Match {
	out := make([]models.Match, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Match{
			ID:        fmt.Sprintf("match_%d_x", i),
			Profile:   models.Profile{ID: i, Name: "P", Age: 20 + i, Image: "/p.png", Interests: []string{"coffee"}},
			MatchedAt: int64(1700000000000 + i),
		})
	}
	out[0].LastMessage = &models.LastMessage{Text: "hi", Timestamp: 1700000000500, FromUser: true}
	out[len(out)-1].IsUnmatched = true
	return out
}

func decodeAll(t *testing.T, text string) []models.Match {
	t.Helper()
	records, err := codec.Decode(text)
	require.NoError(t, err)
	out := make([]models.Match, 0, len(records))
	for _, r := range records {
		m, err := validation.StoredMatch(r)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func TestEncode_DeterministicAndRoundTrips(t *testing.T) {
	matches := sampleMatches(3)

	first, err := codec.Encode(matches)
	require.NoError(t, err)
	second, err := codec.Encode(matches)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, matches, decodeAll(t, first))
}

func TestEncode_Envelope(t *testing.T) {
	text, err := codec.Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"data":[]}`, text)

	var env map[string]any
	text, err = codec.Encode(sampleMatches(1))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(text), &env))
	assert.EqualValues(t, codec.CurrentVersion, env["version"])
	assert.Len(t, env["data"], 1)
}

func TestDecode_LegacyArray(t *testing.T) {
	matches := sampleMatches(4)
	legacy, err := json.Marshal(matches)
	require.NoError(t, err)

	assert.Equal(t, matches, decodeAll(t, string(legacy)))
}

func TestDecode_EnvelopeWithoutArrayData(t *testing.T) {
	for _, text := range []string{
		`{"version":1,"data":null}`,
		`{"version":1,"data":{"a":1}}`,
		`{"version":2,"data":"oops"}`,
	} {
		records, err := codec.Decode(text)
		require.NoError(t, err, text)
		assert.Empty(t, records, text)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	for _, text := range []string{
		"",
		"not json",
		`{"version":1,`,
		`{"data":[]}`,
		`{"version":1}`,
		`{"foo":"bar"}`,
		`"a string"`,
		`42`,
		`null`,
	} {
		_, err := codec.Decode(text)
		require.Error(t, err, text)
		assert.True(t, apperr.Is(err, apperr.ValidationKind), text)
	}
}
