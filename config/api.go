package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Public paths (health probe has no auth)
	return []string{"/health", "/custom/ping"}
}
