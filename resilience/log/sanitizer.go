package log

import "strings"

// controlCharReplacer escapes control characters that can be used for log
// injection (CWE-117). Newlines, carriage returns and tabs inside log
// messages can forge fake log entries or corrupt audit trails.
var controlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// sanitizeString escapes control characters in a single string value.
func sanitizeString(s string) string {
	return controlCharReplacer.Replace(s)
}

// sanitizeArgs escapes control characters in all string-typed arguments.
// Non-string arguments pass through unchanged.
func sanitizeArgs(args []any) []any {
	sanitized := make([]any, len(args))

	for i, arg := range args {
		if s, ok := arg.(string); ok {
			sanitized[i] = sanitizeString(s)
		} else {
			sanitized[i] = arg
		}
	}

	return sanitized
}
