package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/repository"

	"github.com/rs/zerolog"
)

const (
	invalidJSONMessage = "Invalid JSON"
	invalidBodyMessage = "Invalid request body"
	duplicateMessage   = "Duplicate like"
)

// Interaction is a validated like or dislike. User ids are in canonical text
// form, so 1 and "1" name the same user.
type Interaction struct {
	FromUserID string
	ToUserID   string
	Action     string
}

// InteractionResult is the outcome of an accepted interaction
type InteractionResult struct {
	Interaction
	Match bool
}

// InteractionService records like edges and detects mutual likes
type InteractionService struct {
	likes  repository.LikeRepository
	delay  time.Duration
	logger zerolog.Logger
}

// NewInteractionService creates a resolver that waits delay before handling each request
func NewInteractionService(likes repository.LikeRepository, delay time.Duration, logger zerolog.Logger) *InteractionService {
	return &InteractionService{
		likes:  likes,
		delay:  delay,
		logger: logger.With().Str("component", "interactions").Logger(),
	}
}

// Resolve handles one raw request body. The delay always runs before parsing.
// A like is recorded atomically: a repeated like fails with DuplicateLikeKind
// and a like whose reverse edge already exists reports a match. Dislikes are
// never recorded.
func (s *InteractionService) Resolve(ctx context.Context, body []byte) (*InteractionResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	in, err := ParseInteraction(body)
	if err != nil {
		return nil, err
	}

	result := &InteractionResult{Interaction: in}
	if in.Action == models.ActionDislike {
		return result, nil
	}

	added, err := s.likes.Add(ctx, in.FromUserID, in.ToUserID)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageKind, err, "Failed to record like")
	}
	if !added {
		return nil, apperr.New(apperr.DuplicateLikeKind, duplicateMessage)
	}

	result.Match, err = s.likes.Exists(ctx, in.ToUserID, in.FromUserID)
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageKind, err, "Failed to check reciprocal like")
	}

	s.logger.Info().
		Str("from_user_id", in.FromUserID).
		Str("to_user_id", in.ToUserID).
		Bool("match", result.Match).
		Msg("Like recorded")

	return result, nil
}

func (s *InteractionService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ParseInteraction decodes and validates a request body. Malformed JSON fails
// with InvalidPayloadKind, any other shape problem with InvalidBodyKind.
func ParseInteraction(body []byte) (Interaction, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return Interaction{}, apperr.Wrap(apperr.InvalidPayloadKind, err, invalidJSONMessage)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Interaction{}, apperr.New(apperr.InvalidPayloadKind, invalidJSONMessage)
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return Interaction{}, apperr.New(apperr.InvalidBodyKind, invalidBodyMessage)
	}

	from, ok := userID(obj["fromUserId"], true)
	if !ok {
		return Interaction{}, invalidBody("fromUserId")
	}
	to, ok := userID(obj["toUserId"], false)
	if !ok {
		return Interaction{}, invalidBody("toUserId")
	}
	action, _ := obj["action"].(string)
	if action != models.ActionLike && action != models.ActionDislike {
		return Interaction{}, invalidBody("action")
	}

	return Interaction{FromUserID: from, ToUserID: to, Action: action}, nil
}

// userID returns the canonical text of an integer id, or of a string id when
// allowString is set
func userID(v any, allowString bool) (string, bool) {
	switch id := v.(type) {
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	case string:
		return id, allowString
	}
	return "", false
}

func invalidBody(field string) error {
	return &apperr.Error{Kind: apperr.InvalidBodyKind, Message: invalidBodyMessage, Field: field}
}
