package oauth2client

import (
	"net/url"
	"sort"
	"strings"
)

// Normalize encodes params as key=value pairs joined by "&", ordered by key
// and then by value. Keys and values are written verbatim; callers escape
// them first when the result goes on the wire.
func Normalize(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	pairs := make([][2]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, [2]string{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p[0])
		sb.WriteByte('=')
		sb.WriteString(p[1])
	}
	return sb.String()
}

// normalizeEscaped query-escapes every key and value and then normalizes.
func normalizeEscaped(params map[string]string) string {
	escaped := make(map[string]string, len(params))
	for k, v := range params {
		escaped[url.QueryEscape(k)] = url.QueryEscape(v)
	}
	return Normalize(escaped)
}
