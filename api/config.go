// Package api provides the HTTP surface of the iris engine: chat, affinity
// scoring, the survey questionnaire, and on-demand axis classification.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string
}
