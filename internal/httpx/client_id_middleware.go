package httpx

import (
	"net/http"
)

// ClientIDHeader carries the optional, opaque identifier of the viewing client.
const ClientIDHeader = "X-Client-ID"

// ClientIDMiddleware validates the optional client header and stores it in
// the request context. A malformed value is rejected with 400.
func ClientIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := r.Header.Get(ClientIDHeader)
		if clientID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if errs := ValidateVar(clientID, "clientID", "max=128,printascii"); len(errs) > 0 {
			JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid "+ClientIDHeader+" header", toDetails(errs))
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClientID(r.Context(), clientID)))
	})
}

func toDetails(errs []ValidationError) []ErrorDetail {
	details := make([]ErrorDetail, len(errs))
	for i, e := range errs {
		details[i] = ErrorDetail{Field: e.Field, Message: e.Message}
	}
	return details
}
