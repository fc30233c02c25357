package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `yaml:"allowedOrigins" validate:"dive,required"`
}

// APIConfig points at the open-data explore API and its two datasets
type APIConfig struct {
	BaseURL            string `yaml:"baseURL" validate:"omitempty,url"`
	StationsDataset    string `yaml:"stationsDataset"`
	ConnectionsDataset string `yaml:"connectionsDataset"`
	TimeoutMS          int    `yaml:"timeoutMS" validate:"gte=0"`
}

// FetchConfig contains pagination and retry limits
type FetchConfig struct {
	PageSize        int `yaml:"pageSize" validate:"gte=0,lte=100"`
	StationPages    int `yaml:"stationPages" validate:"gte=0"`
	ConnectionPages int `yaml:"connectionPages" validate:"gte=0"`
	Retries         int `yaml:"retries" validate:"gte=0,lte=10"`
	RetryDelayMS    int `yaml:"retryDelayMS" validate:"gte=0"`
}

// WindowConfig is the date range of connections requested, starting today
type WindowConfig struct {
	Days int `yaml:"days" validate:"gte=0,lte=366"`
}

// MatchingConfig contains station resolution policy
type MatchingConfig struct {
	// AllowPartial accepts first-token name matches. Nil means true.
	AllowPartial *bool `yaml:"allowPartial"`
}

// CacheConfig selects and configures the snapshot cache backend
type CacheConfig struct {
	Backend  string `yaml:"backend" validate:"omitempty,oneof=none memory file s3"`
	TTLHours int    `yaml:"ttlHours" validate:"gte=0"`
	Dir      string `yaml:"dir" validate:"required_if=Backend file"`
	Bucket   string `yaml:"bucket" validate:"required_if=Backend s3"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
	Prefix   string `yaml:"prefix"`
}

// ReloadConfig controls the periodic reload of the server snapshot
type ReloadConfig struct {
	IntervalMinutes int `yaml:"intervalMinutes" validate:"gte=0"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Window   WindowConfig   `yaml:"window"`
	Matching MatchingConfig `yaml:"matching"`
	Cache    CacheConfig    `yaml:"cache"`
	Reload   ReloadConfig   `yaml:"reload"`
	Log      LogConfig      `yaml:"log"`
}

// PartialMatching reports whether first-token matches are accepted.
func (c AppConfig) PartialMatching() bool {
	return c.Matching.AllowPartial == nil || *c.Matching.AllowPartial
}
