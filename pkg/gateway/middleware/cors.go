package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls the CORS middleware.
type CORSConfig struct {
	// Enabled switches the middleware on.
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists permitted origins; ["*"] allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists permitted methods for preflight.
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists permitted request headers for preflight.
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int `yaml:"max_age"`
}

// DefaultCORSConfig permits browser access from anywhere, matching the
// chat UI's needs in dev deployments.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         3600,
	}
}

// CORS adds cross-origin headers and answers preflight OPTIONS requests.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			switch {
			case origin != "" && originAllowed(origin, config.AllowedOrigins):
				w.Header().Set("Access-Control-Allow-Origin", origin)
			case originAllowed("*", config.AllowedOrigins):
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

			if r.Method == http.MethodOptions {
				if len(config.AllowedMethods) > 0 {
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				}
				if len(config.AllowedHeaders) > 0 {
					w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				}
				if config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
