// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/inputval"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs server-side failures and answers the client with a
// generic JSON error, so internal details never leak into responses.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs msg and err with request context and writes a 500
// with userMsg as the body.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	_, _, userID, _ := authz.UserCtx(r)
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	}
	if !userID.IsZero() {
		fields = append(fields, zap.String("user_id", userID.Hex()))
	}
	if el != nil && el.Log != nil {
		el.Log.Error(msg, fields...)
	}
	if userMsg == "" {
		userMsg = "Something went wrong. Please try again."
	}
	respond.Error(w, http.StatusInternalServerError, userMsg)
}

// invalidBody is the 400 body for failed validation.
type invalidBody struct {
	Error  string                `json:"error"`
	Fields []inputval.FieldError `json:"fields"`
}

// Invalid answers 400 with every failed rule of res.
func Invalid(w http.ResponseWriter, res *inputval.Result) {
	respond.JSON(w, http.StatusBadRequest, invalidBody{Error: res.First(), Fields: res.Errors})
}

// NotFound is the router's fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "Not found.")
}

// MethodNotAllowed is the router's fallback for known paths with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed.")
}
