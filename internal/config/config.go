// Package config loads and saves the tripvault TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config holds all tripvault configuration.
type Config struct {
	Planner    PlannerConfig    `toml:"planner"`
	Remote     RemoteConfig     `toml:"remote"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Render     RenderConfig     `toml:"render"`
	Tiers      TierOverrides    `toml:"tiers"`
}

// PlannerConfig holds the defaults a new plan starts from.
type PlannerConfig struct {
	CurrencySymbol string  `toml:"currency_symbol"`
	Vehicle        string  `toml:"vehicle" validate:"oneof=car bike train flight"`
	Mileage        float64 `toml:"mileage" validate:"gte=0"`
	FuelPrice      float64 `toml:"fuel_price" validate:"gte=0"`
	BikeMileage    float64 `toml:"bike_mileage" validate:"gte=0"`
	BikeFuelPrice  float64 `toml:"bike_fuel_price" validate:"gte=0"`
	TrainTicket    float64 `toml:"train_ticket" validate:"gte=0"`
	FlightTicket   float64 `toml:"flight_ticket" validate:"gte=0"`
	People         int     `toml:"people" validate:"gte=1,lte=100"`
	DefaultMode    string  `toml:"default_mode" validate:"oneof=group per-person"`
	Tier           string  `toml:"tier" validate:"oneof=budget standard luxury"`
}

// RemoteConfig points at the trip save service.
type RemoteConfig struct {
	BaseURL   string `toml:"base_url,omitempty" validate:"omitempty,url"`
	CSRFToken string `toml:"csrf_token,omitempty"`
	SessionID string `toml:"session_id,omitempty"`
}

// ServerConfig holds the local planner server settings.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// RenderConfig tunes the render debounce windows and autosave cadence.
type RenderConfig struct {
	FastMS      int `toml:"fast_ms" validate:"gte=0"`
	SlowMS      int `toml:"slow_ms" validate:"gte=0"`
	AutosaveSec int `toml:"autosave_sec" validate:"gte=0"`
}

// TierOverrides replaces individual tier multipliers.
type TierOverrides struct {
	Budget   *float64 `toml:"budget,omitempty" validate:"omitempty,gt=0"`
	Standard *float64 `toml:"standard,omitempty" validate:"omitempty,gt=0"`
	Luxury   *float64 `toml:"luxury,omitempty" validate:"omitempty,gt=0"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Planner: PlannerConfig{
			CurrencySymbol: money.DefaultSymbol,
			Vehicle:        string(model.VehicleCar),
			Mileage:        18,
			FuelPrice:      105,
			BikeMileage:    50,
			BikeFuelPrice:  100,
			People:         2,
			DefaultMode:    string(model.ModeGroup),
			Tier:           string(model.TierStandard),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8790",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Render: RenderConfig{
			FastMS:      80,
			SlowMS:      300,
			AutosaveSec: 5,
		},
	}
}

// TripDefaults returns the trip setup a new plan starts with.
func (p PlannerConfig) TripDefaults() model.TripSetup {
	t := model.DefaultTripSetup()
	if model.ValidVehicle(p.Vehicle) {
		t.Vehicle = model.Vehicle(p.Vehicle)
	}
	t.Mileage = money.Number(p.Mileage)
	t.FuelPrice = money.Number(p.FuelPrice)
	t.BikeMileage = money.Number(p.BikeMileage)
	t.BikeFuelPrice = money.Number(p.BikeFuelPrice)
	t.TrainTicket = money.Number(p.TrainTicket)
	t.FlightTicket = money.Number(p.FlightTicket)
	if p.People > 0 {
		t.People = money.Number(p.People)
	}
	if model.ValidMode(p.DefaultMode) {
		t.DefaultMode = model.ShareMode(p.DefaultMode)
	}
	if model.ValidTier(p.Tier) {
		t.Tier = model.Tier(p.Tier)
	}
	return t
}

// Symbol returns the configured currency symbol or the default.
func (p PlannerConfig) Symbol() string {
	if p.CurrencySymbol == "" {
		return money.DefaultSymbol
	}
	return p.CurrencySymbol
}

// FastWindow returns the structural render debounce window.
func (r RenderConfig) FastWindow() time.Duration {
	return time.Duration(r.FastMS) * time.Millisecond
}

// SlowWindow returns the keystroke render debounce window.
func (r RenderConfig) SlowWindow() time.Duration {
	return time.Duration(r.SlowMS) * time.Millisecond
}

// AutosaveInterval returns the periodic draft save interval.
func (r RenderConfig) AutosaveInterval() time.Duration {
	return time.Duration(r.AutosaveSec) * time.Second
}

// TierTable returns the stock multipliers with any overrides applied.
func (c Config) TierTable() TierTable {
	return DefaultTiers.WithOverrides(c.Tiers)
}

var validate = validator.New()

// ErrInvalid wraps config validation failures.
var ErrInvalid = errors.New("config: invalid")

// Validate checks field ranges and enum values.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s must satisfy %q", ErrInvalid, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripvault")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripvault")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the draft store.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripvault")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tripvault")
}

// DraftPath returns the default draft store path.
func DraftPath() string {
	return filepath.Join(DataDir(), "drafts.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
