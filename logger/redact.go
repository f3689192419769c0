package logger

import (
	"strings"

	"go.uber.org/zap"
)

const redactedPlaceholder = "[REDACTED]"

// Field names whose values must never reach a log sink. Matched
// case-insensitively at every nesting level.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"new_password":  {},
	"token":         {},
	"access_token":  {},
	"refresh_token": {},
	"authorization": {},
	"cookie":        {},
	"api_key":       {},
	"apikey":        {},
	"secret":        {},
	"service_key":   {},
	"session":       {},
}

func IsSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

// Sanitize returns a copy of fields with the values of sensitive keys
// replaced. Nested maps and slices are walked; the input is not mutated.
func Sanitize(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if IsSensitiveKey(k) {
			out[k] = redactedPlaceholder
			continue
		}
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return Sanitize(val)
	case map[string]string:
		out := make(map[string]interface{}, len(val))
		for k, s := range val {
			if IsSensitiveKey(k) {
				out[k] = redactedPlaceholder
			} else {
				out[k] = s
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return v
	}
}

// Redacted builds a zap field for payloads that may carry credentials.
func Redacted(key string, fields map[string]interface{}) zap.Field {
	return zap.Any(key, Sanitize(fields))
}
