// Package validation provides validation for cluster names and network
// segments. Cluster naming follows the site convention: lowercase
// alphanumeric with hyphens, carrying a required prefix (ocp4- by default).
package validation

import (
	"fmt"
	"net"
	"strings"
)

// isAlpha returns true if the byte is an ASCII lowercase letter.
func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// isNum returns true if the byte is an ASCII digit.
func isNum(b byte) bool {
	return b >= '0' && b <= '9'
}

// NormalizeClusterName lowercases and trims a cluster name. Normalization
// happens before any validation so that equality checks and composite keys
// are case-insensitive.
func NormalizeClusterName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasClusterPrefix reports whether the (normalized) name carries the
// required prefix.
func HasClusterPrefix(name, prefix string) bool {
	return strings.HasPrefix(NormalizeClusterName(name), prefix)
}

// ValidateClusterName validates a cluster name against the required prefix
// and the naming charset, returning the normalized name.
func ValidateClusterName(name, prefix string) (string, error) {
	normalized := NormalizeClusterName(name)

	if len(normalized) < 3 || len(normalized) > 100 {
		return "", fmt.Errorf("cluster name must be between 3 and 100 characters")
	}
	if !strings.HasPrefix(normalized, prefix) {
		return "", fmt.Errorf("cluster name must start with '%s'", prefix)
	}
	if strings.HasPrefix(normalized, "-") || strings.HasSuffix(normalized, "-") {
		return "", fmt.Errorf("cluster name cannot start or end with a hyphen")
	}
	for _, b := range []byte(normalized) {
		if !isAlpha(b) && !isNum(b) && b != '-' {
			return "", fmt.Errorf("cluster names can only contain lowercase letters, numbers, or hyphens")
		}
	}

	return normalized, nil
}

// ValidateCIDR validates a single network segment in CIDR notation.
func ValidateCIDR(segment string) error {
	if _, _, err := net.ParseCIDR(segment); err != nil {
		return fmt.Errorf("invalid CIDR notation '%s'", segment)
	}
	return nil
}

// ValidateSegments validates a list of network segments. The list must be
// non-empty and every entry must be valid CIDR notation.
func ValidateSegments(segments []string) error {
	if len(segments) == 0 {
		return fmt.Errorf("at least one segment is required")
	}
	for _, segment := range segments {
		if err := ValidateCIDR(segment); err != nil {
			return err
		}
	}
	return nil
}
