package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// emailRegex checks for local-part@domain.tld format.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// domainRegex accepts dot separated DNS labels without a scheme or path.
var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// environmentRegex matches what the registry accepts as an environment name.
var environmentRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// IsValidEmail checks if the given string is a valid email address format.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidDomain checks for a bare domain such as "example.org".
func IsValidDomain(domain string) bool {
	if domain == "" || strings.Contains(domain, "://") {
		return false
	}
	return domainRegex.MatchString(domain)
}

// IsValidPort checks for a TCP port number between 1 and 65535.
func IsValidPort(port string) bool {
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// IsPositiveInt checks for a base 10 integer greater than zero.
func IsPositiveInt(value string) bool {
	n, err := strconv.Atoi(value)
	return err == nil && n > 0
}

// IsValidEnvironmentName checks an environment name such as "qa" or "staging-2".
func IsValidEnvironmentName(name string) bool {
	return len(name) <= 255 && environmentRegex.MatchString(name)
}
