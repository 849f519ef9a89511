package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"termometro/geo"
)

const (
	defaultProfileDir  = ".termometro"
	defaultProfileFile = "config.yaml"
	envProfilePath     = "TERMOMETRO_CONFIG"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("profile is invalid")
)

// Profile holds local defaults for the CLI.
type Profile struct {
	Servidor string   `yaml:"servidor,omitempty" json:"servidor,omitempty"`
	Lat      *float64 `yaml:"lat,omitempty" json:"lat,omitempty"`
	Lon      *float64 `yaml:"lon,omitempty" json:"lon,omitempty"`
}

// Position returns the saved position, if both coordinates are set.
func (p Profile) Position() (geo.Coordinate, bool) {
	if p.Lat == nil || p.Lon == nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: *p.Lat, Lon: *p.Lon}, true
}

// ProfileStore reads and writes the YAML profile file.
type ProfileStore struct {
	path string
}

// NewProfileStore uses $TERMOMETRO_CONFIG or ~/.termometro/config.yaml.
func NewProfileStore() (*ProfileStore, error) {
	if p := os.Getenv(envProfilePath); p != "" {
		return &ProfileStore{path: p}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &ProfileStore{path: filepath.Join(home, defaultProfileDir, defaultProfileFile)}, nil
}

func NewProfileStoreAt(path string) *ProfileStore {
	return &ProfileStore{path: path}
}

func (s *ProfileStore) Path() string {
	return s.path
}

func (s *ProfileStore) Load(_ context.Context) (Profile, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(payload, &p); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if pos, ok := p.Position(); ok && !pos.Valid() {
		return Profile{}, fmt.Errorf("%w: coordinate out of range", ErrInvalidProfile)
	}
	return p, nil
}

func (s *ProfileStore) Save(_ context.Context, p Profile) error {
	if (p.Lat == nil) != (p.Lon == nil) {
		return fmt.Errorf("%w: lat and lon must be set together", ErrInvalidProfile)
	}
	if pos, ok := p.Position(); ok && !pos.Valid() {
		return fmt.Errorf("%w: coordinate out of range", ErrInvalidProfile)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}
	payload, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}
