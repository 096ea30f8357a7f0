package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// GenericErrorMessage is the only text returned for unclassified failures.
const GenericErrorMessage = "An unexpected error occurred. Please try again later."

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    interface{}       `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	Status    int           `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Details   []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request, customMeta map[string]interface{}) interface{} {
	requestID := ""
	if r != nil {
		requestID = RequestIDFrom(r)
	}
	if requestID == "" && customMeta == nil {
		return nil
	}
	meta := make(map[string]interface{}, len(customMeta)+1)
	if requestID != "" {
		meta["request_id"] = requestID
	}
	for k, v := range customMeta {
		meta[k] = v
	}
	return meta
}

func JSONSuccess(w http.ResponseWriter, r *http.Request, data interface{}, meta map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    buildMeta(r, meta),
	})
}

// JSONError writes an error envelope stamped with the current time.
func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	JSONErrorAt(w, r, statusCode, code, message, time.Now(), details)
}

// JSONErrorAt writes an error envelope stamped with at, for errors that
// carry the time they occurred.
func JSONErrorAt(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, at time.Time, details []ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:      code,
			Message:   message,
			Status:    statusCode,
			Timestamp: at.UTC(),
			Details:   details,
		},
		Meta: buildMeta(r, nil),
	})
}
