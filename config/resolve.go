package config

// Overrides are command-line values; nil fields were not given.
type Overrides struct {
	Debug    *bool
	Detector *string
	Listen   *string
	DryRun   *bool
	Headless *bool
}

// ListenOff disables the settings server when passed as Listen.
const ListenOff = "off"

// Resolve layers defaults, the config file at path, the dotenv file, the
// process environment (through lookup) and finally o, then validates.
func Resolve(path, envFile string, lookup func(string) (string, bool), o Overrides) (*Config, error) {
	if err := LoadDotenv(envFile); err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(lookup)
	if o.Debug != nil {
		cfg.Debug = *o.Debug
	}
	if o.Detector != nil {
		cfg.Detector = *o.Detector
	}
	if o.Listen != nil {
		cfg.Listen = *o.Listen
	}
	if cfg.Listen == ListenOff {
		cfg.Listen = ""
	}
	if o.DryRun != nil {
		cfg.DryRun = *o.DryRun
	}
	if o.Headless != nil {
		cfg.Headless = *o.Headless
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
