package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/codec"
	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/repository"
	"swipe-match-backend/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	loadFailedMessage  = "Failed to load matches"
	saveFailedMessage  = "Failed to save matches"
	clearFailedMessage = "Failed to clear matches"
)

// MatchStoreOptions configures a MatchStore
type MatchStoreOptions struct {
	Key          string
	MaxMatches   int
	Debounce     time.Duration
	WriteTimeout time.Duration

	// Now and NewID default to the wall clock and match_<profileId>_<uuid>
	Now   func() time.Time
	NewID func(profileID int) string
}

// MatchView is what callers see of the store: active matches only
type MatchView struct {
	Matches []models.Match `json:"matches"`
	Loading bool           `json:"loading"`
	Error   *string        `json:"error"`
}

// MatchStore owns the local match collection and persists it to a KVStore.
// Every mutation is applied through ReduceMatches under one lock. Saves are
// debounced and skipped when the encoded collection equals the last text
// written successfully.
type MatchStore struct {
	kv     repository.KVStore
	opts   MatchStoreOptions
	logger zerolog.Logger

	mu        sync.Mutex
	state     MatchState
	lastSaved string
	saveTimer *time.Timer
	saveGen   uint64
	pending   string
	queued    bool
	closed    bool

	// writeMu serializes storage writes. It is always taken before mu.
	writeMu sync.Mutex
}

// NewMatchStore creates a store in the loading state. Call Load before use.
func NewMatchStore(kv repository.KVStore, opts MatchStoreOptions, logger zerolog.Logger) *MatchStore {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func(profileID int) string {
			return fmt.Sprintf("match_%d_%s", profileID, uuid.NewString())
		}
	}
	return &MatchStore{
		kv:     kv,
		opts:   opts,
		logger: logger.With().Str("component", "match_store").Logger(),
		state:  MatchState{Matches: []models.Match{}, Loading: true},
	}
}

// Load reads the persisted collection. Records that fail validation are
// dropped and at most MaxMatches are kept. A read or decode failure leaves
// the store empty with an error set and removes the stored entry.
func (s *MatchStore) Load(ctx context.Context) {
	s.mu.Lock()
	s.applyLocked(SetLoading{Loading: true})
	s.mu.Unlock()

	matches, raw, err := s.read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("context", "Loading matches from storage").Msg("Match store error")
		if delErr := s.kv.Delete(ctx, s.opts.Key); delErr != nil {
			s.logger.Error().Err(delErr).Msg("Failed to remove corrupted matches")
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.lastSaved = mustEncode(nil)
		s.applyLocked(SetError{Message: loadFailedMessage})
		s.applyLocked(SetMatches{Matches: []models.Match{}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The stored text is the baseline, so an unchanged collection is not
	// written straight back.
	s.lastSaved = raw
	s.applyLocked(SetMatches{Matches: matches})

	s.logger.Info().Int("count", len(matches)).Msg("Matches loaded")
}

func (s *MatchStore) read(ctx context.Context) ([]models.Match, string, error) {
	raw, found, err := s.kv.Get(ctx, s.opts.Key)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.StorageKind, err, loadFailedMessage)
	}
	if !found {
		return []models.Match{}, mustEncode(nil), nil
	}

	records, err := codec.Decode(raw)
	if err != nil {
		return nil, "", err
	}

	matches := make([]models.Match, 0, len(records))
	for i, rec := range records {
		m, err := validation.StoredMatch(rec)
		if err != nil {
			s.logger.Warn().Err(err).Int("index", i).Msg("Skipping invalid stored match")
			continue
		}
		matches = append(matches, m)
	}
	if len(matches) > s.opts.MaxMatches {
		matches = matches[:s.opts.MaxMatches]
	}
	return matches, raw, nil
}

// View returns the active matches with the loading flag and error
func (s *MatchStore) View() MatchView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := MatchView{Matches: s.state.Active(), Loading: s.state.Loading}
	if s.state.Error != "" {
		msg := s.state.Error
		v.Error = &msg
	}
	return v
}

// State returns the full state including unmatched records
func (s *MatchStore) State() MatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AddMatch creates a match with profile and prepends it. It fails when the
// profile is invalid or an active match with the same profile id exists.
func (s *MatchStore) AddMatch(profile models.Profile) (models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.Profile(profile); err != nil {
		return models.Match{}, s.failLocked(err, "Adding new match")
	}
	for _, m := range s.state.Matches {
		if m.Profile.ID == profile.ID && !m.IsUnmatched {
			err := apperr.Validation("profile", "Match already exists with this profile")
			return models.Match{}, s.failLocked(err, "Adding new match")
		}
	}

	match := models.Match{
		ID:        s.opts.NewID(profile.ID),
		Profile:   profile.Clone(),
		MatchedAt: s.opts.Now().UnixMilli(),
	}
	s.applyLocked(AddMatch{Match: match})

	s.logger.Info().Str("match_id", match.ID).Int("profile_id", profile.ID).Msg("Match added")
	return match, nil
}

// GetMatch returns the match with id, unmatched or not
func (s *MatchStore) GetMatch(id string) (models.Match, bool) {
	if err := validation.MatchID(id); err != nil {
		s.logger.Error().Err(err).Str("context", "Getting match").Msg("Match store error")
		return models.Match{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

// Unmatch flags the match with id. The record is kept but leaves the active view.
func (s *MatchStore) Unmatch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.MatchID(id); err != nil {
		return s.failLocked(err, "Unmatching")
	}
	if _, ok := s.findLocked(id); !ok {
		return s.failLocked(apperr.New(apperr.NotFoundKind, "Match not found"), "Unmatching")
	}

	s.applyLocked(Unmatch{ID: id})
	s.logger.Info().Str("match_id", id).Msg("Match unmatched")
	return nil
}

// AddMessage sets the last message of an active match. The text is trimmed.
func (s *MatchStore) AddMessage(id, text string, fromUser bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validation.MatchID(id); err != nil {
		return s.failLocked(err, "Adding message")
	}
	trimmed, err := validation.MessageText(text)
	if err != nil {
		return s.failLocked(err, "Adding message")
	}
	m, ok := s.findLocked(id)
	if !ok {
		return s.failLocked(apperr.New(apperr.NotFoundKind, "Match not found"), "Adding message")
	}
	if m.IsUnmatched {
		return s.failLocked(apperr.Validation("matchId", "Cannot send message to unmatched user"), "Adding message")
	}

	s.applyLocked(AddMessage{
		ID: id,
		Message: models.LastMessage{
			Text:      trimmed,
			Timestamp: s.opts.Now().UnixMilli(),
			FromUser:  fromUser,
		},
	})
	return nil
}

// ClearMatches removes the stored entry first and then empties the state
func (s *MatchStore) ClearMatches(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.opts.Key); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.failLocked(apperr.Wrap(apperr.StorageKind, err, clearFailedMessage), "Clearing all matches")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSaved = ""
	s.applyLocked(ClearMatches{})
	s.logger.Info().Msg("Matches cleared")
	return nil
}

// ClearError resets the user-facing error
func (s *MatchStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Error != "" {
		s.applyLocked(SetError{})
	}
}

// StorageInfo reports the active match count and the size of the stored text.
// It returns 0 and "Unknown" if storage cannot be read.
func (s *MatchStore) StorageInfo(ctx context.Context) models.StorageInfo {
	raw, _, err := s.kv.Get(ctx, s.opts.Key)
	if err != nil {
		s.logger.Error().Err(err).Str("context", "Getting storage info").Msg("Match store error")
		return models.StorageInfo{MatchCount: 0, StorageUsed: "Unknown"}
	}

	s.mu.Lock()
	count := len(s.state.Active())
	s.mu.Unlock()

	return models.StorageInfo{MatchCount: count, StorageUsed: FormatBytes(len(raw))}
}

// FormatBytes renders a byte count as B, KB or MB
func FormatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	}
}

// Flush writes any pending save immediately
func (s *MatchStore) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !s.queued {
		s.mu.Unlock()
		return nil
	}
	payload := s.pending
	s.cancelSaveLocked()
	s.mu.Unlock()

	return s.write(ctx, payload)
}

// Close stops the save timer. A pending save is dropped, so call Flush first.
func (s *MatchStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelSaveLocked()
	s.closed = true
}

func (s *MatchStore) findLocked(id string) (models.Match, bool) {
	for _, m := range s.state.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return models.Match{}, false
}

// failLocked logs err, records its message as the store error and returns it
func (s *MatchStore) failLocked(err error, op string) error {
	s.logger.Error().Err(err).Str("context", op).Msg("Match store error")
	s.applyLocked(SetError{Message: apperr.Message(err)})
	return err
}

func (s *MatchStore) applyLocked(action MatchAction) {
	prev := s.state
	s.state = ReduceMatches(prev, action)
	if changesMatches(action) || prev.Loading != s.state.Loading {
		s.scheduleSaveLocked()
	}
}

// scheduleSaveLocked replaces any pending save with one for the current
// collection, unless the store is loading or the encoded text is unchanged.
func (s *MatchStore) scheduleSaveLocked() {
	s.cancelSaveLocked()
	if s.state.Loading || s.closed {
		return
	}

	toSave := s.state.Matches
	if len(toSave) > s.opts.MaxMatches {
		toSave = toSave[:s.opts.MaxMatches]
	}
	payload, err := codec.Encode(toSave)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode matches")
		return
	}
	if payload == s.lastSaved {
		return
	}

	gen := s.saveGen
	s.pending = payload
	s.queued = true
	s.saveTimer = time.AfterFunc(s.opts.Debounce, func() {
		s.persist(gen)
	})
}

func (s *MatchStore) cancelSaveLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	s.saveGen++
	s.pending = ""
	s.queued = false
}

func (s *MatchStore) persist(gen uint64) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if gen != s.saveGen || !s.queued {
		s.mu.Unlock()
		return
	}
	payload := s.pending
	s.queued = false
	s.saveTimer = nil
	s.mu.Unlock()

	_ = s.write(context.Background(), payload)
}

// write stores payload under the write timeout. Callers hold writeMu.
func (s *MatchStore) write(ctx context.Context, payload string) error {
	if s.opts.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.WriteTimeout)
		defer cancel()
	}

	err := s.kv.Set(ctx, s.opts.Key, payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = apperr.Wrap(apperr.TimeoutKind, err, fmt.Sprintf("operation timed out after %s", s.opts.WriteTimeout))
		} else {
			err = apperr.Wrap(apperr.StorageKind, err, saveFailedMessage)
		}
		s.logger.Error().Err(err).Str("context", "Saving matches to storage").Msg("Match store error")

		s.mu.Lock()
		s.applyLocked(SetError{Message: saveFailedMessage})
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.lastSaved = payload
	s.mu.Unlock()

	s.logger.Debug().Int("bytes", len(payload)).Msg("Matches saved")
	return nil
}

func mustEncode(matches []models.Match) string {
	text, err := codec.Encode(matches)
	if err != nil {
		panic(fmt.Sprintf("encoding empty match list: %v", err))
	}
	return text
}
