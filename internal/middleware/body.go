package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// MaxBodyBytes caps the size of parsed request bodies.
const MaxBodyBytes = 100 << 10

type contextKey string

const (
	// ContextKeyBody is the key for the parsed request body in request context.
	ContextKeyBody contextKey = "body"
)

// ErrNoBody is returned by DecodeBody when no body was parsed for the request.
var ErrNoBody = errors.New("request body is required")

// Body returns the parsed request body as JSON, if a body parser accepted it.
func Body(ctx context.Context) (json.RawMessage, bool) {
	body, ok := ctx.Value(ContextKeyBody).(json.RawMessage)
	return body, ok && len(body) > 0
}

// DecodeBody unmarshals the parsed request body into v.
func DecodeBody(ctx context.Context, v any) error {
	body, ok := Body(ctx)
	if !ok {
		return ErrNoBody
	}
	return json.Unmarshal(body, v)
}

func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}

// readBody reads at most MaxBodyBytes and puts the bytes back on the request
// so later readers still see them. It writes the error response itself.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "failed to read request body")
		return nil, false
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, true
}

func withBody(r *http.Request, body json.RawMessage) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyBody, body))
}

// URLEncoded parses application/x-www-form-urlencoded bodies into a JSON object.
// Keys seen once map to strings; repeated keys and keys ending in "[]" map to arrays.
func URLEncoded(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mediaType(r) != "application/x-www-form-urlencoded" {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := readBody(w, r)
		if !ok {
			return
		}

		values, err := url.ParseQuery(string(raw))
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", "malformed form body")
			return
		}

		body, err := json.Marshal(formObject(values))
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", "malformed form body")
			return
		}

		next.ServeHTTP(w, withBody(r, body))
	})
}

func formObject(values url.Values) map[string]any {
	fields := make(map[string][]string, len(values))
	lists := make(map[string]bool)

	// Plain keys first so "k=a&k[]=b" always yields ["a","b"].
	for key, vals := range values {
		if !strings.HasSuffix(key, "[]") {
			fields[key] = append(fields[key], vals...)
		}
	}
	for key, vals := range values {
		if name, isList := strings.CutSuffix(key, "[]"); isList {
			fields[name] = append(fields[name], vals...)
			lists[name] = true
		}
	}

	obj := make(map[string]any, len(fields))
	for name, vals := range fields {
		if len(vals) == 1 && !lists[name] {
			obj[name] = vals[0]
		} else {
			obj[name] = vals
		}
	}
	return obj
}

func isJSON(mt string) bool {
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// JSON parses application/json bodies. Only objects and arrays are accepted
// at the top level; an empty body passes through unparsed.
func JSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isJSON(mediaType(r)) {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := readBody(w, r)
		if !ok {
			return
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if (trimmed[0] != '{' && trimmed[0] != '[') || !json.Valid(trimmed) {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}

		next.ServeHTTP(w, withBody(r, json.RawMessage(trimmed)))
	})
}
