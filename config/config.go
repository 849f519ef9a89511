package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"termometro/geo"
)

const (
	BackendSQLite = "sqlite"
	BackendInflux = "influx"
)

// Reference building used when no geofence is configured.
const (
	defaultGeofenceLat    = -34.604425
	defaultGeofenceLon    = -58.392582
	defaultGeofenceRadius = 150.0
)

// Config holds the application's configuration.
type Config struct {
	Port string

	StoreBackend   string
	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string
	SQLitePath     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	AulasSource string
	WebDir      string

	GeofenceEnabled bool
	Geofence        geo.Geofence
	LocationTimeout time.Duration
	StoreTimeout    time.Duration

	AllowedOrigins []string

	MQTTBroker string
	MQTTTopic  string

	KafkaBrokers []string
	KafkaTopic   string

	Auth Auth0Config
}

// LoadConfig loads the configuration from the environment, reading a .env
// file first when one is present.
func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a getenv-style lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:            envOr(getenv, "PORT", "8000"),
		StoreBackend:    strings.ToLower(envOr(getenv, "STORE_BACKEND", BackendSQLite)),
		InfluxDBURL:     getenv("INFLUXDB_URL"),
		InfluxDBToken:   getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:     getenv("INFLUXDB_ORG"),
		InfluxDBBucket:  envOr(getenv, "INFLUXDB_BUCKET", "reportes"),
		SQLitePath:      envOr(getenv, "SQLITE_PATH", "data/termometro.db"),
		RedisAddr:       getenv("REDIS_ADDR"),
		RedisPassword:   getenv("REDIS_PASSWORD"),
		AulasSource:     envOr(getenv, "AULAS_SOURCE", "web/aulas.json"),
		WebDir:          getenv("WEB_DIR"),
		AllowedOrigins:  splitList(envOr(getenv, "CORS_ALLOWED_ORIGINS", "*")),
		MQTTBroker:      getenv("MQTT_BROKER"),
		MQTTTopic:       envOr(getenv, "MQTT_TOPIC", "termometro/reportes"),
		KafkaBrokers:    splitList(getenv("KAFKA_BROKERS")),
		KafkaTopic:      envOr(getenv, "KAFKA_TOPIC", "termometro.reportes"),
		Auth:            loadAuth0Config(getenv),
		GeofenceEnabled: true,
		Geofence: geo.Geofence{
			Center:       geo.Coordinate{Lat: defaultGeofenceLat, Lon: defaultGeofenceLon},
			RadiusMeters: defaultGeofenceRadius,
		},
	}

	var err error
	if cfg.RedisDB, err = intEnv(getenv, "REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.StatsCacheTTL, err = durationEnv(getenv, "STATS_CACHE_TTL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.LocationTimeout, err = durationEnv(getenv, "LOCATION_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.StoreTimeout, err = durationEnv(getenv, "STORE_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.GeofenceEnabled, err = boolEnv(getenv, "GEOFENCE_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.Geofence.Center.Lat, err = floatEnv(getenv, "GEOFENCE_LAT", defaultGeofenceLat); err != nil {
		return Config{}, err
	}
	if cfg.Geofence.Center.Lon, err = floatEnv(getenv, "GEOFENCE_LON", defaultGeofenceLon); err != nil {
		return Config{}, err
	}
	if cfg.Geofence.RadiusMeters, err = floatEnv(getenv, "GEOFENCE_RADIUS_M", defaultGeofenceRadius); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
	case BackendInflux:
		if c.InfluxDBURL == "" || c.InfluxDBToken == "" || c.InfluxDBOrg == "" {
			return fmt.Errorf("InfluxDB configuration is incomplete. Please set INFLUXDB_URL, INFLUXDB_TOKEN, and INFLUXDB_ORG environment variables")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (use %s or %s)", c.StoreBackend, BackendSQLite, BackendInflux)
	}
	if c.GeofenceEnabled {
		if !c.Geofence.Center.Valid() {
			return fmt.Errorf("invalid geofence center %s", c.Geofence.Center)
		}
		if c.Geofence.RadiusMeters <= 0 {
			return fmt.Errorf("GEOFENCE_RADIUS_M must be positive, got %v", c.Geofence.RadiusMeters)
		}
	}
	if c.LocationTimeout <= 0 || c.StoreTimeout <= 0 {
		return fmt.Errorf("LOCATION_TIMEOUT and STORE_TIMEOUT must be positive")
	}
	return nil
}

// ActiveGeofence returns the geofence to enforce, or nil when disabled.
func (c Config) ActiveGeofence() *geo.Geofence {
	if !c.GeofenceEnabled {
		return nil
	}
	fence := c.Geofence
	return &fence
}

func envOr(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intEnv(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func floatEnv(getenv func(string) string, key string, def float64) (float64, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func boolEnv(getenv func(string) string, key string, def bool) (bool, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
