package config

import (
	"fmt"
	"strconv"
	"time"
)

const EnvPrefix = "PIPELINE_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envBinding struct {
	name  string
	apply func(cfg *Config, value string) error
}

func stringEnv(name string, target func(*Config) *string) envBinding {
	return envBinding{name: name, apply: func(cfg *Config, value string) error {
		*target(cfg) = value
		return nil
	}}
}

func boolEnv(name string, target func(*Config) *bool) envBinding {
	return envBinding{name: name, apply: func(cfg *Config, value string) error {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		*target(cfg) = parsed
		return nil
	}}
}

func intEnv(name string, target func(*Config) *int) envBinding {
	return envBinding{name: name, apply: func(cfg *Config, value string) error {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		*target(cfg) = parsed
		return nil
	}}
}

func durationEnv(name string, target func(*Config) *time.Duration) envBinding {
	return envBinding{name: name, apply: func(cfg *Config, value string) error {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*target(cfg) = parsed
		return nil
	}}
}

var envBindings = []envBinding{
	stringEnv("BUCKET", func(c *Config) *string { return &c.Storage.Bucket }),
	stringEnv("REGION", func(c *Config) *string { return &c.Storage.Region }),
	stringEnv("S3_ENDPOINT", func(c *Config) *string { return &c.Storage.Endpoint }),
	boolEnv("S3_PATH_STYLE", func(c *Config) *bool { return &c.Storage.UsePathStyle }),
	stringEnv("AUTH_KEY", func(c *Config) *string { return &c.Storage.AuthKey }),
	stringEnv("AUTH_SECRET", func(c *Config) *string { return &c.Storage.AuthSecret }),
	stringEnv("RAW_PREFIX", func(c *Config) *string { return &c.Storage.RawPrefix }),
	stringEnv("PROCESSED_PREFIX", func(c *Config) *string { return &c.Storage.ProcessedPrefix }),
	stringEnv("OUTPUT_FORMAT", func(c *Config) *string { return &c.Output.Format }),
	stringEnv("RUN_LOG_KEY", func(c *Config) *string { return &c.RunLog.Key }),
	durationEnv("RUN_LOG_LOCK_DURATION", func(c *Config) *time.Duration { return &c.RunLog.LockDuration.Duration }),
	boolEnv("LOCK_ENABLED", func(c *Config) *bool { return &c.Lock.Enabled }),
	stringEnv("REDIS_ADDRESS", func(c *Config) *string { return &c.Lock.Address }),
	stringEnv("REDIS_PASSWORD", func(c *Config) *string { return &c.Lock.Password }),
	intEnv("REDIS_DB", func(c *Config) *int { return &c.Lock.DB }),
	boolEnv("REGISTER_PARTITION", func(c *Config) *bool { return &c.Catalog.RegisterPartition }),
	stringEnv("CATALOG_ENGINE", func(c *Config) *string { return &c.Catalog.Engine }),
	stringEnv("DATABASE", func(c *Config) *string { return &c.Catalog.Database }),
	stringEnv("TABLE", func(c *Config) *string { return &c.Catalog.Table }),
	stringEnv("ATHENA_OUTPUT_LOCATION", func(c *Config) *string { return &c.Catalog.OutputLocation }),
	stringEnv("ATHENA_WORKGROUP", func(c *Config) *string { return &c.Catalog.WorkGroup }),
	stringEnv("LOG_LEVEL", func(c *Config) *string { return &c.Log.Level }),
	stringEnv("LOG_FORMAT", func(c *Config) *string { return &c.Log.Format }),
}

// ApplyEnv overrides fields from PIPELINE_* variables that are set.
func (obj *Config) ApplyEnv(lookup LookupFunc) error {
	for _, binding := range envBindings {
		name := EnvPrefix + binding.name
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := binding.apply(obj, value); err != nil {
			return fmt.Errorf("%w| %s: %v", ErrConfigInvalid, name, err)
		}
	}
	return nil
}
