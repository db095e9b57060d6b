package logging

import (
	"fmt"
	"regexp"
	"strings"
)

// RedactPattern is a caller-supplied regex-based redaction rule, layered
// on top of the built-in patterns.
type RedactPattern struct {
	Name        string
	Pattern     string
	Replacement string
}

// Redactor redacts secrets (HMC credentials, session cookies, bearer
// tokens) from log fields before they reach the handler.
type Redactor struct {
	patterns map[string]*redactPattern
	enabled  bool
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names, covering the secrets this client actually
// handles: the HMC password, the Authorization header it never sends
// but a caller's custom transport middleware might, and the session
// cookie transport.Do sets on every authenticated request.
const (
	PatternPassword      = "password"
	PatternAuthorization = "authorization"
	PatternCookie        = "cookie"
)

// NewRedactor creates a new Redactor with default and custom patterns.
func NewRedactor(customPatterns []RedactPattern) *Redactor {
	r := &Redactor{
		patterns: make(map[string]*redactPattern),
		enabled:  true,
	}

	// Add default patterns
	r.addDefaultPatterns()

	// Add custom patterns
	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			// Skip invalid patterns (log warning in production)
			continue
		}
		r.patterns[p.Name] = &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		}
	}

	return r
}

// addDefaultPatterns adds the built-in HMC secret redaction patterns.
func (r *Redactor) addDefaultPatterns() {
	patterns := map[string]struct {
		regex       string
		replacement string
	}{
		// Generic password fields, as they appear in config dumps or
		// the Logon request body ("password": "...").
		PatternPassword: {
			regex:       `(?i)(password|passwd|pwd)["']?\s*[:=]\s*["']?[^\s"',}]+`,
			replacement: "$1: ***",
		},

		// Authorization header values (Basic/Bearer), in case a log
		// line includes raw request headers.
		PatternAuthorization: {
			regex:       `(?i)(Authorization:\s*)(Basic|Bearer)\s+[a-zA-Z0-9+/=._~-]+`,
			replacement: "${1}${2} ***",
		},

		// Cookie / Set-Cookie header values. transport.Do sends the
		// HMC session cookie on every authenticated request after
		// Logon; session.go captures it from Set-Cookie on login.
		PatternCookie: {
			regex:       `(?i)((?:Set-)?Cookie:\s*)[^\r\n]+`,
			replacement: "${1}***",
		},
	}

	for name, p := range patterns {
		regex := regexp.MustCompile(p.regex)
		r.patterns[name] = &redactPattern{
			name:        name,
			regex:       regex,
			replacement: p.replacement,
		}
	}
}

// RedactString redacts secrets from a string value.
func (r *Redactor) RedactString(value string) string {
	if !r.enabled || value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// RedactArgs redacts secrets from variadic log arguments.
// Args are in the form: key1, value1, key2, value2, ...
func (r *Redactor) RedactArgs(args ...any) []any {
	if !r.enabled || len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	// Process key-value pairs
	for i := 1; i < len(redacted); i += 2 {
		// Check if this is a sensitive field by key name
		if i > 0 {
			key, ok := redacted[i-1].(string)
			if ok && r.isSensitiveKey(key) {
				redacted[i] = r.redactValue(redacted[i])
			}
		}

		// Also redact string values that match patterns
		if str, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(str)
		}
	}

	return redacted
}

// isSensitiveKey checks if a key name indicates sensitive data.
func (r *Redactor) isSensitiveKey(key string) bool {
	// Convert to lowercase for case-insensitive matching
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"secret", "token",
		"auth", "authorization",
		"cookie", "session",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// redactValue redacts a sensitive value completely.
func (r *Redactor) redactValue(value any) any {
	switch v := value.(type) {
	case string:
		// For sensitive keys, completely redact the value
		if v == "" {
			return ""
		}
		return "***"
	case fmt.Stringer:
		return "***"
	default:
		return "***"
	}
}

// min returns the minimum of two integers.
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RedactCookie redacts an HMC session cookie, keeping only enough of
// the name to identify which cookie it was.
func RedactCookie(cookie string) string {
	name, _, found := strings.Cut(cookie, "=")
	if !found {
		return "***"
	}
	return name + "=***"
}

// RedactPassword redacts a password value entirely.
func RedactPassword(string) string {
	return "***"
}
