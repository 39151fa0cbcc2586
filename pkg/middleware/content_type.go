package middleware

import (
	"net/http"
	"strings"

	"travelbook/pkg/logger"
)

// ContentTypeValidation rejects writes without a JSON body. The upload
// endpoint is exempt since browsers send multipart/form-data there.
func ContentTypeValidation(log *logger.Logger, multipartPaths ...string) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(multipartPaths))
	for _, p := range multipartPaths {
		exempt[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r.Method) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if _, ok := exempt[r.URL.Path]; ok {
					if contentType != "multipart/form-data" {
						rejectInvalidContentType(w, log, r, contentType, "multipart/form-data")
						return
					}
				} else if contentType != "application/json" {
					rejectInvalidContentType(w, log, r, contentType, "application/json")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.Split(header, ";")
	return strings.TrimSpace(parts[0])
}

func rejectInvalidContentType(w http.ResponseWriter, log *logger.Logger, r *http.Request, got, want string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Invalid Content-Type header",
		"request_id", requestID,
		"content_type", got,
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnsupportedMediaType)
	_, _ = w.Write([]byte(`{"message":"Content-Type must be ` + want + `"}`))
}
