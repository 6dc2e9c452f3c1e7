package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// versionRegex matches the version strings accepted by the explorer:
// release tags like "4.2.1" or "v4.2.1", branch names like "master",
// and prerelease tags like "v4.0.0-rc1".
var versionRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateVersion validates a user-supplied model version.
// Versions end up in cache keys and raw GitHub URLs, so the rules are
// intentionally conservative:
//   - No empty versions (empty means "latest" and is resolved upstream)
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 64 characters
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidVersion, "version cannot be empty")
	}

	if len(version) > 64 {
		return New(ErrCodeInvalidVersion, "version too long (max 64 characters)")
	}

	for _, r := range version {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidVersion, "version contains invalid control characters")
		}
	}

	if strings.ContainsAny(version, "/\\") {
		return New(ErrCodeInvalidVersion, "version cannot contain path separators")
	}
	if strings.Contains(version, "..") {
		return New(ErrCodeInvalidVersion, "version cannot contain path traversal sequences (..)")
	}

	if !versionRegex.MatchString(version) {
		return New(ErrCodeInvalidVersion, "invalid version: %q", version)
	}

	return nil
}

// nodeIDRegex matches category IDs (CamelCase) and predicate IDs
// (snake_case), plus the handful of schema entries with digits or colons.
var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_:]*$`)

// ValidateNodeID validates a hierarchy node identifier from a URL or
// search request.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "node ID too long (max 128 characters)")
	}

	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid node ID: %q", id)
	}

	return nil
}
