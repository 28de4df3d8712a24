package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Values are read once at startup; no component
// reads the environment again after Load returns.
type Config struct {
	Env         string // application environment (e.g. "dev", "production")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	CORSOrigin  string // allowed CORS origin ("*" when unset)
	SeedOnStart bool   // seed a starter catalog when the database is empty
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),            // environment (dev/test/production)
		Port:        must("APP_PORT"),           // port to bind the HTTP server
		DBUser:      must("DB_USER"),            // database user
		DBPass:      os.Getenv("DB_PASS"),       // database password (empty allowed)
		DBHost:      must("DB_HOST"),            // database host
		DBPort:      must("DB_PORT"),            // database port
		DBName:      must("DB_NAME"),            // database name
		CORSOrigin:  envStr("CORS_ORIGIN", "*"), // CORS origin for browser clients
		SeedOnStart: envBool("SEED_ON_START", false),
	}
}

// IsProduction reports whether the application runs in production mode.  The
// upload store uses this to decide between object storage and local disk.
func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
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
