package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/credentialguard/internal/config"
	"github.com/sells-group/credentialguard/internal/lookup"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                8000,
			FailureMode:         config.FailureModeSoft,
			ReadTimeoutSecs:     15,
			WriteTimeoutSecs:    30,
			ShutdownTimeoutSecs: 5,
		},
		NPPES: config.NPPESConfig{BaseURL: baseURL, Version: "2.1", TimeoutSecs: 10},
		CORS: config.CORSConfig{
			AllowedOrigins:   config.DefaultAllowedOrigins,
			AllowCredentials: true,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Log:     config.LogConfig{Level: "info", Format: "json"},
	}
}

func TestWriteEnvelope_JSON(t *testing.T) {
	var buf bytes.Buffer
	env := lookup.Envelope{Failure: &lookup.Failure{Kind: lookup.KindNotFound, Detail: "NPI Not Found in CMS Registry", NPI: "1234567890"}}

	require.NoError(t, writeEnvelope(&buf, env, "json"))
	assert.JSONEq(t, `{"error":true,"detail":"NPI Not Found in CMS Registry","npi":"1234567890"}`, buf.String())
}

func TestWriteEnvelope_YAML(t *testing.T) {
	var buf bytes.Buffer
	env := lookup.Envelope{Record: &lookup.Record{
		FirstName:   "Jane",
		LastName:    "Doe",
		Credential:  "MD",
		Specialty:   "Cardiology",
		State:       "CA",
		NPI:         "1234567890",
		Status:      "Active",
		LastUpdated: "Unknown",
	}}

	require.NoError(t, writeEnvelope(&buf, env, "yaml"))
	assert.Equal(t, `error: false
firstName: Jane
lastName: Doe
credential: MD
specialty: Cardiology
state: CA
npi: "1234567890"
status: Active
lastUpdated: Unknown
`, buf.String())
}

func TestWriteEnvelope_UnknownFormat(t *testing.T) {
	err := writeEnvelope(&bytes.Buffer{}, lookup.Envelope{}, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestInitLookup_UsesConfiguredRegistry(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2.1", r.URL.Query().Get("version"))
		w.Write([]byte(`{"results":[{"basic":{"first_name":"Jane","credential":"MD"}}]}`))
	}))
	defer registry.Close()

	env := initLookup(testConfig(registry.URL), false)
	assert.Nil(t, env.Metrics)

	res := env.Service.Lookup(context.Background(), "1234567890")
	require.True(t, res.OK())
	assert.Equal(t, "Jane", res.Record.FirstName)
	assert.Equal(t, "MD", res.Record.Credential)
}

func TestInitLookup_WithMetrics(t *testing.T) {
	env := initLookup(testConfig("http://127.0.0.1:1"), true)
	require.NotNil(t, env.Metrics)

	res := env.Service.Lookup(context.Background(), "bad")
	assert.False(t, res.OK())
}
