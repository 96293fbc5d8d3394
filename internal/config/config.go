package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses timeout configuration as durations
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Required values are enforced by must();
// operational knobs (timeouts, TTLs) have defaults and may be omitted.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // secret used to sign JWTs
	AccessTTLMin   int           // access token time-to-live in minutes
	RefreshTTLDays int           // refresh token time-to-live in days
	BcryptCost     int           // bcrypt cost for password hashing
	ProbeTimeout   time.Duration // pre-import connectivity probe timeout
	CommitTimeout  time.Duration // per-row import commit / check-in update timeout
	DebounceTTL    time.Duration // window during which identical scans are coalesced
	EventCacheTTL  time.Duration // lifetime of the cached event listing
}

// Load reads configuration values from environment variables and returns
// a Config.  Missing required variables cause the program to exit with a
// fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		ProbeTimeout:   seconds("IMPORT_PROBE_TIMEOUT_SEC", 8),
		CommitTimeout:  seconds("STORE_COMMIT_TIMEOUT_SEC", 10),
		DebounceTTL:    seconds("SCAN_DEBOUNCE_SEC", 3),
		EventCacheTTL:  seconds("EVENT_CACHE_TTL_SEC", 30),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// seconds reads an optional integer env var and returns it as a
// duration, falling back to def seconds when unset or unparsable.
func seconds(key string, def int) time.Duration {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Printf("invalid value for %s: %q, using default %ds", key, s, def)
	}
	return time.Duration(def) * time.Second
}
