package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "reportes", cfg.InfluxDBBucket)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.LocationTimeout)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	assert.True(t, cfg.GeofenceEnabled)
	assert.Equal(t, 150.0, cfg.Geofence.RadiusMeters)
	assert.Equal(t, -34.604425, cfg.Geofence.Center.Lat)
	assert.False(t, cfg.Auth.Enabled())
	assert.Empty(t, cfg.KafkaBrokers)

	fence := cfg.ActiveGeofence()
	require.NotNil(t, fence)
	assert.Equal(t, cfg.Geofence, *fence)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"PORT":              "9000",
		"GEOFENCE_LAT":      "-34.611334",
		"GEOFENCE_LON":      "-58.436502",
		"GEOFENCE_RADIUS_M": "450",
		"KAFKA_BROKERS":     "k1:9092, k2:9092,",
		"LOCATION_TIMEOUT":  "3s",
		"AUTH0_DOMAIN":      "https://example.auth0.com/",
		"AUTH0_AUDIENCE":    "termometro-api",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 450.0, cfg.Geofence.RadiusMeters)
	assert.Equal(t, -58.436502, cfg.Geofence.Center.Lon)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.LocationTimeout)
	assert.True(t, cfg.Auth.Enabled())

	issuer, err := cfg.Auth.IssuerURL()
	require.NoError(t, err)
	assert.Equal(t, "https://example.auth0.com/", issuer.String())
}

func TestFromEnvGeofenceDisabled(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{"GEOFENCE_ENABLED": "false", "GEOFENCE_RADIUS_M": "0"}))
	require.NoError(t, err)
	assert.Nil(t, cfg.ActiveGeofence())
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad radius":         {"GEOFENCE_RADIUS_M": "lejos"},
		"negative radius":    {"GEOFENCE_RADIUS_M": "-1"},
		"bad center":         {"GEOFENCE_LAT": "120"},
		"bad bool":           {"GEOFENCE_ENABLED": "quizas"},
		"bad duration":       {"STORE_TIMEOUT": "5"},
		"bad redis db":       {"REDIS_DB": "uno"},
		"unknown backend":    {"STORE_BACKEND": "firestore"},
		"incomplete influx":  {"STORE_BACKEND": "influx", "INFLUXDB_URL": "http://localhost:8086"},
		"zero store timeout": {"STORE_TIMEOUT": "0s"},
	}
	for name, env := range cases {
		_, err := FromEnv(lookup(env))
		assert.Error(t, err, name)
	}
}
