package config // package config loads application configuration from environment variables

import "os"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Every knob ships with a working local default;
// only the database password is allowed to stay empty.
type Config struct {
	Port      string // HTTP port to listen on
	DBHost    string // database host address
	DBPort    string // database port number
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBName    string // database name
	RedisAddr string // host:port of the session store
}

// Load reads configuration values from environment variables and returns a
// Config.  Unset variables fall back to their defaults.
func Load() Config {
	return Config{
		Port:      getenv("APP_PORT", "8080"),           // port to bind the HTTP server
		DBHost:    getenv("DB_HOST", "localhost"),       // database host
		DBPort:    getenv("DB_PORT", "3306"),            // database port
		DBUser:    getenv("DB_USER", "root"),            // database user
		DBPass:    os.Getenv("DB_PASS"),                 // database password (empty allowed)
		DBName:    getenv("DB_NAME", "pixelgram"),       // database name
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"), // session store address
	}
}

// getenv retrieves the value of an environment variable, substituting the
// provided default when the variable is unset or empty.
func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
