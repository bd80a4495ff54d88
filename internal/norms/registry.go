// Package norms maintains the catalog of normative profiles used to
// standardize session scores. Profiles come from static configuration,
// are validated once at load time, and are immutable afterwards.
package norms

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/domain/scoring"
)

// Registry resolves normative profile IDs to validated profiles. A failed
// lookup is an expected outcome (custom or ad hoc profile IDs), reported
// as a tagged resolution rather than an error.
type Registry struct {
	profiles map[string]*domain.NormativeProfile
	logger   *slog.Logger
}

// NewRegistry builds a registry from the given profiles. Every profile is
// validated; any invalid profile or duplicate ID is a fatal configuration
// error and aborts construction.
func NewRegistry(profiles []domain.NormativeProfile, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	byID := make(map[string]*domain.NormativeProfile, len(profiles))
	for i := range profiles {
		p := profiles[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.ID, err)
		}
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate profile ID %q", domain.ErrInvalidProfile, p.ID)
		}
		byID[p.ID] = &p
	}

	logger.Info("normative profile registry loaded", slog.Int("profiles", len(byID)))

	return &Registry{
		profiles: byID,
		logger:   logger.With(slog.String("component", "norms_registry")),
	}, nil
}

// Resolve looks up a profile by ID. A missing ID yields a missing
// resolution, never an error; the scorer consumes the distinction once.
func (r *Registry) Resolve(id string) scoring.ProfileResolution {
	profile, ok := r.profiles[id]
	if !ok {
		r.logger.Debug("normative profile not found", slog.String("profile_id", id))
		return scoring.MissingProfile()
	}
	return scoring.ResolvedProfile(profile)
}

// All returns every registered profile. Order is unspecified.
func (r *Registry) All() []domain.NormativeProfile {
	out := make([]domain.NormativeProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out
}

// LoadProfiles reads profile definitions from a YAML file. The file holds a
// top-level "profiles" list; see profiles.yaml for the shape. An unreadable
// or malformed file is a fatal configuration error.
func LoadProfiles(path string) ([]domain.NormativeProfile, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read normative profiles from %s: %w", path, err)
	}

	var profiles []domain.NormativeProfile
	if err := v.UnmarshalKey("profiles", &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse normative profiles from %s: %w", path, err)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no profiles defined in %s", domain.ErrInvalidProfile, path)
	}

	return profiles, nil
}

// DefaultProfiles returns the built-in population profiles used when no
// profile file is configured.
func DefaultProfiles() []domain.NormativeProfile {
	return []domain.NormativeProfile{
		{
			ID:                  "adults-18-59",
			Label:               "Adults 18-59",
			Language:            domain.LanguagePortuguese,
			MeanWPM:             180,
			SDWPM:               40,
			MeanCoverage:        65,
			SDCoverage:          15,
			ReliabilityCoverage: 0.8,
		},
		{
			ID:                  "adults-60-plus",
			Label:               "Adults 60+",
			Language:            domain.LanguagePortuguese,
			MeanWPM:             150,
			SDWPM:               38,
			MeanCoverage:        55,
			SDCoverage:          16,
			ReliabilityCoverage: 0.78,
		},
		{
			ID:                  "adults-18-59-en",
			Label:               "Adults 18-59 (English)",
			Language:            domain.LanguageEnglish,
			MeanWPM:             220,
			SDWPM:               45,
			MeanCoverage:        65,
			SDCoverage:          15,
			ReliabilityCoverage: 0.8,
		},
	}
}
