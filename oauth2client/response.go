package oauth2client

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// decodeResponse turns a raw response into the decoded document or one of
// DecodeError, APIError or HTTPError. A non-empty "errors" field wins over
// the status code.
func decodeResponse(codec *Codec, status int, raw []byte) (interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		if !isSuccess(status) {
			return nil, &HTTPError{StatusCode: status}
		}
		return nil, nil
	}

	var doc interface{}
	if err := codec.Unmarshal(trimmed, &doc); err != nil {
		return nil, &DecodeError{StatusCode: status, Err: err}
	}

	if obj, ok := doc.(map[string]interface{}); ok {
		if fields := errorFields(obj); len(fields) > 0 {
			return nil, &APIError{StatusCode: status, Fields: fields}
		}
	}

	if !isSuccess(status) {
		return nil, &HTTPError{StatusCode: status, Body: raw}
	}
	return doc, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// errorFields collects the field/message pairs of a response, ordered by
// field name. Older API generations report {"status": false, "error": "..."}
// instead of an errors map; that shape yields a single unnamed entry.
func errorFields(obj map[string]interface{}) []FieldError {
	switch errs := obj["errors"].(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]FieldError, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, FieldError{Field: k, Message: cleanMessage(errs[k])})
		}
		return fields
	case []interface{}:
		fields := make([]FieldError, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, FieldError{Message: cleanMessage(e)})
		}
		return fields
	case string:
		if errs != "" {
			return []FieldError{{Message: errs}}
		}
	}

	if status, ok := obj["status"].(bool); ok && !status {
		if msg, ok := obj["error"].(string); ok && msg != "" {
			return []FieldError{{Message: msg}}
		}
	}
	return nil
}

var messageCleaner = strings.NewReplacer("[", "", "]", "", "\"", "", "\r", " ", "\n", " ")

// cleanMessage renders an error value as plain text: lists are joined, and
// brackets and quotes are stripped from anything else.
func cleanMessage(v interface{}) string {
	switch m := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(messageCleaner.Replace(m))
	case []interface{}:
		parts := make([]string, 0, len(m))
		for _, e := range m {
			if s := cleanMessage(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+cleanMessage(m[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(messageCleaner.Replace(fmt.Sprint(m)))
	}
}

// Result returns the "result" field of doc when present, and doc otherwise.
// Request returns whole documents; Result serves callers that only want the
// payload.
func Result(doc interface{}) interface{} {
	if obj, ok := doc.(map[string]interface{}); ok {
		if r, ok := obj["result"]; ok {
			return r
		}
	}
	return doc
}
