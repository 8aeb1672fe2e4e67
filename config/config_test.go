package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := fromEnv(envOf(map[string]string{
		"JWT_SECRET_KEY": "secret",
		"DATABASE_URL":   "postgres://localhost/galero",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, GatewayPostgres, cfg.Gateway)
	assert.Equal(t, SnapshotFile, cfg.SnapshotBackend)
	assert.Equal(t, ".galero", cfg.SnapshotDir)
	assert.Equal(t, 10.0, cfg.APIRateLimit)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.DraftMode)
}

func TestFromEnv_RESTGateway(t *testing.T) {
	cfg, err := fromEnv(envOf(map[string]string{
		"JWT_SECRET_KEY":   "secret",
		"GATEWAY":          "REST",
		"API_BASE_URL":     "https://api.example.com/",
		"API_RATE_LIMIT":   "2.5",
		"SNAPSHOT_BACKEND": "redis",
		"REDIS_URL":        "redis://localhost:6379/0",
		"DRAFT_MODE":       "true",
		"CORS_ORIGINS":     "https://a.example, https://b.example",
		"SERVER_PORT":      "9090",
	}))
	require.NoError(t, err)

	assert.Equal(t, GatewayREST, cfg.Gateway)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 2.5, cfg.APIRateLimit)
	assert.True(t, cfg.DraftMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 9090, cfg.ServerPort)
}

func TestFromEnv_Errors(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{"JWT_SECRET_KEY": "secret", "DATABASE_URL": "postgres://x"}
	}
	tests := []struct {
		name  string
		tweak func(map[string]string)
	}{
		{"missing jwt secret", func(m map[string]string) { delete(m, "JWT_SECRET_KEY") }},
		{"missing database url", func(m map[string]string) { delete(m, "DATABASE_URL") }},
		{"bad port", func(m map[string]string) { m["SERVER_PORT"] = "http" }},
		{"port out of range", func(m map[string]string) { m["SERVER_PORT"] = "70000" }},
		{"unknown gateway", func(m map[string]string) { m["GATEWAY"] = "grpc" }},
		{"rest without base url", func(m map[string]string) { m["GATEWAY"] = "rest" }},
		{"bad rate limit", func(m map[string]string) { m["API_RATE_LIMIT"] = "-1" }},
		{"redis without url", func(m map[string]string) { m["SNAPSHOT_BACKEND"] = "redis" }},
		{"r2 without credentials", func(m map[string]string) { m["SNAPSHOT_BACKEND"] = "r2" }},
		{"unknown snapshot backend", func(m map[string]string) { m["SNAPSHOT_BACKEND"] = "s3" }},
		{"bad draft flag", func(m map[string]string) { m["DRAFT_MODE"] = "maybe" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := base()
			tt.tweak(env)
			_, err := fromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}
