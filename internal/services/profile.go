package services

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"swipe-match-backend/internal/models"
	"swipe-match-backend/internal/validation"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultCatalog []byte

// ProfileService serves the candidate profiles shown in the swipe stack
type ProfileService struct {
	profiles []models.Profile
	delay    time.Duration
}

// NewProfileService creates a service listing profiles after delay
func NewProfileService(profiles []models.Profile, delay time.Duration) *ProfileService {
	return &ProfileService{profiles: profiles, delay: delay}
}

// List returns a copy of the catalog once the delay has passed
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	out := make([]models.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.Clone()
	}
	return out, nil
}

// DefaultProfiles returns the built-in catalog
func DefaultProfiles(logger zerolog.Logger) ([]models.Profile, error) {
	return ParseProfiles(defaultCatalog, logger)
}

// LoadProfiles reads a YAML catalog file
func LoadProfiles(path string, logger zerolog.Logger) ([]models.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile catalog: %w", err)
	}
	return ParseProfiles(data, logger)
}

// ParseProfiles decodes a YAML list of profiles. Entries that fail
// validation are logged and skipped.
func ParseProfiles(data []byte, logger zerolog.Logger) ([]models.Profile, error) {
	var raw []models.Profile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse profile catalog: %w", err)
	}

	profiles := make([]models.Profile, 0, len(raw))
	for i, p := range raw {
		if err := validation.Profile(p); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("Skipping invalid profile")
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
