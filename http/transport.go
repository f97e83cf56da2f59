package http

import (
	"net/http"
	"strings"
)

const redacted = "****"

// sensitiveHeaders are masked before request headers reach a logger.
var sensitiveHeaders = map[string]bool{
	strings.ToLower(HeaderMerchantID):  true,
	strings.ToLower(HeaderMerchantKey): true,
	"authorization":                    true,
	"cookie":                           true,
}

// sensitiveKeys are redacted from bodies before logging. Matching ignores case.
var sensitiveKeys = []string{
	"merchantkey", "merchant_key", "merchantid", "merchant_id",
	"password", "secret", "token", "apikey", "api_key",
}

// MaskHeaders returns a flattened copy of h with credential headers replaced by "****".
func MaskHeaders(h http.Header) map[string]string {
	masked := make(map[string]string, len(h))
	for name, values := range h {
		if sensitiveHeaders[strings.ToLower(name)] {
			masked[name] = redacted
			continue
		}
		masked[name] = strings.Join(values, ", ")
	}
	return masked
}

// SanitizeBody returns a copy of body with sensitive keys redacted at any depth.
// Values that are not maps or slices are returned unchanged.
func SanitizeBody(body any) any {
	switch v := body.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			if isSensitiveKey(key) {
				out[key] = redacted
				continue
			}
			out[key] = SanitizeBody(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = SanitizeBody(value)
		}
		return out
	default:
		return body
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
