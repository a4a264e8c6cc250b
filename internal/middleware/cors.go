package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	// AllowedOrigins lists callers permitted to make cross-origin
	// requests. Entries of the form "*.example.com" match subdomains.
	// Empty denies every cross-origin caller.
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string

	// AllowCredentials must never be combined with a "*" origin.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int
}

// DefaultCORSConfig returns the API's standard CORS policy with no
// origins allowed; callers fill in AllowedOrigins from configuration.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Request-ID",
			"Accept",
			"Accept-Language",
		},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	}
}

// cors holds the header values and origin set precomputed from a
// CORSConfig so per-request work is a map lookup.
type cors struct {
	cfg     CORSConfig
	methods string
	headers string
	exposed string
	maxAge  string
	origins map[string]bool
}

// CORS returns a middleware enforcing the given cross-origin policy,
// including preflight handling. Requests without an Origin header pass
// through untouched.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	c := &cors{
		cfg:     cfg,
		methods: strings.Join(cfg.AllowedMethods, ", "),
		headers: strings.Join(cfg.AllowedHeaders, ", "),
		exposed: strings.Join(cfg.ExposedHeaders, ", "),
		origins: make(map[string]bool, len(cfg.AllowedOrigins)),
	}
	if cfg.MaxAge > 0 {
		c.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	for _, origin := range cfg.AllowedOrigins {
		c.origins[strings.ToLower(origin)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !c.allows(origin) {
				// Disallowed preflights get an explicit 403; actual
				// requests proceed without CORS headers and the
				// browser blocks the response on its side.
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			if c.cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			if c.exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", c.exposed)
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", c.methods)
				w.Header().Set("Access-Control-Allow-Headers", c.headers)
				if c.maxAge != "" {
					w.Header().Set("Access-Control-Max-Age", c.maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allows reports whether origin may make cross-origin requests, by
// exact match or a "*.example.com" subdomain pattern.
func (c *cors) allows(origin string) bool {
	if len(c.cfg.AllowedOrigins) == 0 {
		return false
	}

	normalized := strings.ToLower(origin)
	if c.origins[normalized] {
		return true
	}

	_, host, found := strings.Cut(normalized, "://")
	if !found {
		return false
	}

	for _, allowed := range c.cfg.AllowedOrigins {
		domain, ok := strings.CutPrefix(allowed, "*.")
		if !ok {
			continue
		}
		// "*.example.com" matches any depth of subdomain, never the
		// apex itself or lookalikes such as "notexample.com".
		if strings.HasSuffix(host, "."+strings.ToLower(domain)) {
			return true
		}
	}

	return false
}
