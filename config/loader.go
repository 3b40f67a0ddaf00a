package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Reference deployment: the Bordeaux Métropole TBM open-data feed.
// The account key is the published open-data key, not a secret.
const (
	DefaultBaseURL    = "https://bdx.mecatran.com/utw/ws/siri/2.0/bordeaux"
	DefaultAccountKey = "opendata-bordeaux-metropole-flux-gtfs-rt"
)

// Default returns the built-in configuration for the reference
// deployment. The service boots from it with no config file at all.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 8080},
		Provider: ProviderConfig{
			BaseURL:        DefaultBaseURL,
			AccountKey:     DefaultAccountKey,
			TimeoutSeconds: 20,
		},
		Area: AreaConfig{
			West:  -0.81,
			North: 45.10,
			East:  -0.35,
			South: 44.70,
		},
		Search: SearchConfig{
			LineThreshold: 0.5,
			DestThreshold: 0.3,
			StopThreshold: 0.3,
			MaxLines:      5,
			MaxResults:    10,
		},
		Departures: DeparturesConfig{
			PreviewInterval: "PT90M",
			MaxVisits:       4,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads, overlays, and validates the application configuration.
//
// File values overlay the defaults, then environment variables overlay
// the file. With no explicit path, config.yml is tried and silently
// skipped when absent; an explicit path that cannot be read is an
// error.
func Load(paths ...string) (*AppConfig, error) {
	cfg := Default()

	explicit := len(paths) > 0
	if !explicit {
		paths = []string{"config.yml"}
	}

	var data []byte
	var err error
	found := false
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			found = true
			break
		}
	}
	if !found && explicit {
		return nil, err
	}
	if found {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("SIRI_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("SIRI_ACCOUNT_KEY"); v != "" {
		cfg.Provider.AccountKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
