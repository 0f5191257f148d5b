// Package auth handles Cloud Vision API key retrieval.
//
// The key is supplied per run and is never written to disk: it comes from
// the VISION_API_KEY environment variable or, failing that, an interactive
// prompt handled by the caller.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// EnvAPIKey is the environment variable consulted for the Vision API key.
const EnvAPIKey = "VISION_API_KEY"

// GetAPIKey retrieves the Vision API key from the environment.
// Returns an error when no key is configured so the caller can fall back
// to an interactive prompt.
func GetAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}
	return "", fmt.Errorf("API key not found: set %s or enter one when prompted", EnvAPIKey)
}
