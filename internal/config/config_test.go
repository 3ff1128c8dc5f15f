package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "content_cms", cfg.Database.Name)
	assert.Equal(t, 10, cfg.Content.DefaultPageSize)
	assert.Equal(t, 100, cfg.Content.MaxPageSize)
	assert.Equal(t, "fs", cfg.Media.Backend)
	assert.Equal(t, int64(25*1024*1024), cfg.Media.MaxUploadSize)
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CONTENT_DEFAULT_PAGE_SIZE", "20")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SCHEDULER_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 20, cfg.Content.DefaultPageSize)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.Interval)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Host: "localhost", Name: "cms"},
			Content:  ContentConfig{DefaultPageSize: 10, MaxPageSize: 100},
			Media:    MediaConfig{Backend: "fs", FSDir: "/tmp/media"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: "DB_HOST"},
		{name: "page size above max", mutate: func(c *Config) { c.Content.DefaultPageSize = 500 }, wantErr: "CONTENT_DEFAULT_PAGE_SIZE"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Media.Backend = "s3" }, wantErr: "S3_BUCKET"},
		{name: "unknown backend", mutate: func(c *Config) { c.Media.Backend = "ftp" }, wantErr: "MEDIA_BACKEND"},
		{name: "scheduler without interval", mutate: func(c *Config) { c.Scheduler.Enabled = true }, wantErr: "SCHEDULER_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", db.GetDSN())
}
