package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// ProviderConfig contains the SIRI-Lite provider endpoint configuration
type ProviderConfig struct {
	BaseURL        string `yaml:"baseURL" validate:"required,url"`
	AccountKey     string `yaml:"accountKey" validate:"required"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" validate:"gt=0"`
	// RequestsPerSecond throttles outbound calls; 0 disables throttling
	RequestsPerSecond float64 `yaml:"requestsPerSecond" validate:"gte=0"`
}

// AreaConfig bounds stop discovery to the provider's service area.
// West/East are longitudes, North/South latitudes (WGS84 degrees).
type AreaConfig struct {
	West  float64 `yaml:"west"`
	North float64 `yaml:"north"`
	East  float64 `yaml:"east"`
	South float64 `yaml:"south"`
}

// SearchConfig contains matching thresholds and result caps
type SearchConfig struct {
	LineThreshold float64 `yaml:"lineThreshold" validate:"gte=0,lte=1"`
	DestThreshold float64 `yaml:"destThreshold" validate:"gte=0,lte=1"`
	StopThreshold float64 `yaml:"stopThreshold" validate:"gte=0,lte=1"`
	MaxLines      int     `yaml:"maxLines" validate:"gt=0"`
	MaxResults    int     `yaml:"maxResults" validate:"gt=0"`
}

// DeparturesConfig contains departure board defaults
type DeparturesConfig struct {
	// PreviewInterval is an ISO-8601 duration, e.g. PT90M
	PreviewInterval string `yaml:"previewInterval" validate:"required"`
	MaxVisits       int    `yaml:"maxVisits" validate:"gt=0"`
}

// LoggingConfig contains log level and output format
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	// Pretty switches from JSON to human-readable console output
	Pretty bool `yaml:"pretty"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Provider   ProviderConfig   `yaml:"provider"`
	Area       AreaConfig       `yaml:"area"`
	Search     SearchConfig     `yaml:"search"`
	Departures DeparturesConfig `yaml:"departures"`
	Logging    LoggingConfig    `yaml:"logging"`
}
