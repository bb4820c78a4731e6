package respond

import (
	"regexp"
)

var (
	// Provider API key patterns. The Anthropic pattern must run first since
	// the OpenAI pattern would also match its "sk-" prefix.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	// Requires 10+ key characters so already-masked strings (containing *)
	// are left alone.
	openaiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	// Password segment of a database DSN.
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)
)

// SanitizeError returns the error message with credentials masked. Errors
// from generation providers and the database can embed API keys or DSNs, and
// those messages end up in HTTP responses.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")

	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
