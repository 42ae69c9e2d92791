package config

import (
	"strconv"
	"time"

	"github.com/matzehuels/arbor/pkg/errors"
)

// envVar binds one ARBOR_* variable to a config field.
type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func str(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func float(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func integer(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolean(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func duration(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

var envVars = []envVar{
	{"ARBOR_LAYOUT_ALGORITHM", str(func(c *Config) *string { return &c.Layout.Algorithm })},
	{"ARBOR_LAYOUT_WIDTH", float(func(c *Config) *float64 { return &c.Layout.Width })},
	{"ARBOR_LAYOUT_HEIGHT", float(func(c *Config) *float64 { return &c.Layout.Height })},
	{"ARBOR_LAYOUT_SEPARATION", str(func(c *Config) *string { return &c.Layout.Separation })},
	{"ARBOR_LAYOUT_ORIENTATION", str(func(c *Config) *string { return &c.Layout.Orientation })},
	{"ARBOR_CACHE_BACKEND", str(func(c *Config) *string { return &c.Cache.Backend })},
	{"ARBOR_CACHE_DIR", str(func(c *Config) *string { return &c.Cache.Dir })},
	{"ARBOR_CACHE_COMPRESS", boolean(func(c *Config) *bool { return &c.Cache.Compress })},
	{"ARBOR_CACHE_TTL", duration(func(c *Config) *time.Duration { return &c.Cache.TTL })},
	{"ARBOR_REDIS_ADDR", str(func(c *Config) *string { return &c.Cache.RedisAddr })},
	{"ARBOR_REDIS_PASSWORD", str(func(c *Config) *string { return &c.Cache.RedisPassword })},
	{"ARBOR_REDIS_DB", integer(func(c *Config) *int { return &c.Cache.RedisDB })},
	{"ARBOR_STORE_BACKEND", str(func(c *Config) *string { return &c.Store.Backend })},
	{"ARBOR_STORE_DIR", str(func(c *Config) *string { return &c.Store.Dir })},
	{"ARBOR_MONGO_URI", str(func(c *Config) *string { return &c.Store.MongoURI })},
	{"ARBOR_SERVER_ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"ARBOR_LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"ARBOR_LOG_FORMAT", str(func(c *Config) *string { return &c.Log.Format })},
}

// applyEnv overrides fields from the environment.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.set(c, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s=%q", ev.name, v)
		}
	}
	return nil
}
