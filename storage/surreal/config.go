package surreal

import (
	"errors"
	"os"
	"strings"
)

// Config carries the connection parameters for one SurrealDB endpoint.
type Config struct {
	// URL is the RPC endpoint, e.g. "ws://localhost:8000/rpc". A ws/wss
	// URL without a path gets "/rpc" appended during normalization.
	URL string

	// Namespace and Database select the logical database.
	Namespace string
	Database  string

	// Username and Password authenticate against the root or namespace
	// user the instance was started with.
	Username string
	Password string
}

// ConfigFromEnv reads the SURREAL_* environment variables, falling back
// to the defaults of a local development instance.
func ConfigFromEnv() Config {
	return Config{
		URL:       envOr("SURREAL_URL", "ws://localhost:8000/rpc"),
		Namespace: envOr("SURREAL_NAMESPACE", "quire"),
		Database:  envOr("SURREAL_DATABASE", "main"),
		Username:  envOr("SURREAL_USER", "root"),
		Password:  envOr("SURREAL_PASS", "root"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Normalize ensures the configuration is in canonical form. WebSocket
// endpoints need the /rpc path; it is appended when missing.
func (c *Config) Normalize() {
	if strings.HasPrefix(c.URL, "ws://") || strings.HasPrefix(c.URL, "wss://") {
		if !strings.HasSuffix(c.URL, "/rpc") {
			c.URL = strings.TrimSuffix(c.URL, "/") + "/rpc"
		}
	}
}

// Validate checks that the configuration is complete. It normalizes
// first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.URL == "" {
		return errors.New("surreal config: URL is required")
	}
	if c.Namespace == "" {
		return errors.New("surreal config: Namespace is required")
	}
	if c.Database == "" {
		return errors.New("surreal config: Database is required")
	}
	return nil
}
