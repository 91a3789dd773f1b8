package utils

import (
	"encoding/json"
	"net/http"

	"marina-ops/pkg/apperror"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	writeResponse(w, code, Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}

func writeResponse(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

// returns 202 Accepted
func ResponseAccepted(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusAccepted, true, message, data, nil)
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	writeResponse(w, http.StatusBadRequest, Response{
		Message: message,
		Code:    string(apperror.KindValidation),
		Errors:  errors,
	})
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusUnauthorized, Response{
		Message: message,
		Code:    string(apperror.KindUnauthorized),
	})
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusForbidden, Response{
		Message: message,
		Code:    string(apperror.KindForbidden),
	})
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusInternalServerError, Response{
		Message: message,
		Code:    string(apperror.KindInternal),
	})
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindInvalidState:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ResponseError writes a classified error with its code, message and details.
func ResponseError(w http.ResponseWriter, appErr *apperror.Error) {
	var errs any
	if len(appErr.Fields) > 0 {
		errs = appErr.Fields
	}
	writeResponse(w, StatusCode(appErr.Kind), Response{
		Message: appErr.Message,
		Code:    string(appErr.Kind),
		Data:    appErr.Details,
		Errors:  errs,
	})
}
