package util

import (
	"os"
	"strings"
)

// IsVerbose checks if BRIDGE_VERBOSE environment variable is set.
// Accepts: "1", "true", "yes" (case-insensitive)
func IsVerbose() bool {
	v := strings.ToLower(os.Getenv("BRIDGE_VERBOSE"))
	return v == "1" || v == "true" || v == "yes"
}
