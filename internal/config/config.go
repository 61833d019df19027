package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "3000"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultAllowedOrigins permits any origin.
	DefaultAllowedOrigins = "*"

	// DefaultConnectAttempts is how many times the database ping is tried before giving up.
	DefaultConnectAttempts = 5
)

var (
	ErrMissingDatabaseURL = errors.New("database URL is required")
	ErrInvalidDatabaseURL = errors.New("database URL is invalid")
	ErrInvalidPort        = errors.New("port is invalid")
	ErrInvalidAttempts    = errors.New("connect attempts must be at least 1")
)

// Server is the process configuration, resolved once at startup.
type Server struct {
	Port            string
	DatabaseURL     string
	AllowedOrigins  []string
	ConnectAttempts uint64
}

// Addr returns the listen address for the HTTP server.
func (s Server) Addr() string {
	return ":" + s.Port
}

// Validate reports the first configuration problem that would prevent serving.
func (s Server) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPort)
	}
	for _, r := range s.Port {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidPort, s.Port)
		}
	}

	if strings.TrimSpace(s.DatabaseURL) == "" {
		return ErrMissingDatabaseURL
	}
	u, err := url.Parse(s.DatabaseURL)
	if err != nil {
		// url errors echo the input, which carries credentials
		return ErrInvalidDatabaseURL
	}
	if u.Scheme == "" {
		return fmt.Errorf("%w: missing scheme", ErrInvalidDatabaseURL)
	}

	if s.ConnectAttempts < 1 {
		return ErrInvalidAttempts
	}

	return nil
}

// ParseOrigins splits a comma separated origin list, dropping blanks.
// An empty list falls back to DefaultAllowedOrigins.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{DefaultAllowedOrigins}
	}
	return origins
}
