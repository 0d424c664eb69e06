// Package codec converts the match collection to and from its stored text form.
//
// The stored form is a versioned envelope {"version":1,"data":[...]}. A bare
// JSON array written by older releases is still accepted on read; writes
// always produce the envelope.
package codec

import (
	"bytes"
	"encoding/json"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/models"
)

// CurrentVersion is the envelope version written by Encode
const CurrentVersion = 1

const errInvalidFormat = "Invalid matches data format"

type envelope struct {
	Version int            `json:"version"`
	Data    []models.Match `json:"data"`
}

// Encode renders matches as a versioned envelope. The output is deterministic
// for equal input, which lets callers compare encodings to skip redundant writes.
func Encode(matches []models.Match) (string, error) {
	if matches == nil {
		matches = []models.Match{}
	}
	b, err := json.Marshal(envelope{Version: CurrentVersion, Data: matches})
	if err != nil {
		return "", apperr.Wrap(apperr.ValidationKind, err, "failed to encode matches")
	}
	return string(b), nil
}

// Decode parses stored text into raw match records. Records are returned
// undecoded so the caller can validate and drop them individually.
//
// A bare array is returned as is. An object carrying both "version" and
// "data" yields data when it is an array and nothing otherwise. Any other
// shape, or unparseable text, is a ValidationKind error.
func Decode(text string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 {
		return nil, apperr.New(apperr.ValidationKind, errInvalidFormat)
	}

	switch trimmed[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, apperr.Wrap(apperr.ValidationKind, err, errInvalidFormat)
		}
		return records, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, apperr.Wrap(apperr.ValidationKind, err, errInvalidFormat)
		}
		_, hasVersion := obj["version"]
		data, hasData := obj["data"]
		if !hasVersion || !hasData {
			return nil, apperr.New(apperr.ValidationKind, errInvalidFormat)
		}
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil || records == nil {
			return []json.RawMessage{}, nil
		}
		return records, nil
	default:
		return nil, apperr.New(apperr.ValidationKind, errInvalidFormat)
	}
}
