package logger

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// access_token=EAAB... in Graph URLs and error bodies.
	tokenParamRegex = regexp.MustCompile(`(?i)(access_token=)[^&\s"']+`)
	bearerRegex     = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`)
)

var secretKeys = []string{"token", "secret", "password", "authorization", "api_key"}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactToken keeps the last four characters of a credential.
// "EAABsbCS1iHgBAKZC" → "***AKZC"
func RedactToken(tok string) string {
	if len(tok) <= 8 {
		return "***"
	}
	return "***" + tok[len(tok)-4:]
}

// RedactSecrets masks access_token query parameters and bearer
// credentials embedded in free text such as URLs and error strings.
func RedactSecrets(s string) string {
	s = tokenParamRegex.ReplaceAllString(s, "${1}***")
	return bearerRegex.ReplaceAllString(s, "${1}***")
}
