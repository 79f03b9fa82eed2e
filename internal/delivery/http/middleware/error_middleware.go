package middleware

import (
	"errors"
	"net/http"

	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// APIBasePath is prefixed to wizard redirect locations.
const APIBasePath = "/v1"

type errorBody struct {
	Kind   apperror.Kind         `json:"kind"`
	Fields []apperror.FieldError `json:"fields,omitempty"`
}

// ErrorHandler renders the last error pushed with c.Error. Internal details
// are logged and reported, never returned to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var redirect *domain.WizardRedirect
		if errors.As(err, &redirect) {
			location := APIBasePath + redirect.Location
			c.Header("Location", location)
			response.Success(c, http.StatusSeeOther, redirect.Reason, gin.H{"location": location})
			return
		}

		appErr := toAppError(err)
		if appErr.Code >= http.StatusInternalServerError {
			requestID := c.GetString(string(domain.KeyRequestID))
			logger.Log.Error("request failed",
				"error", err,
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", requestID,
			)
			report(c, err, requestID)
			response.Error(c, appErr.Code, appErr.Message, errorBody{Kind: appErr.Kind})
			return
		}
		response.Error(c, appErr.Code, appErr.Message, errorBody{Kind: appErr.Kind, Fields: appErr.Fields})
	}
}

func toAppError(err error) *apperror.AppError {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Resource not found")
	case errors.Is(err, domain.ErrConflict):
		return apperror.Conflict("Resource already exists")
	default:
		e := apperror.Internal(err)
		e.Message = "An unexpected error occurred. Please try again later."
		return e
	}
}

// report sends err to Sentry when a client has been initialised.
func report(c *gin.Context, err error, requestID string) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub = hub.Clone()
	hub.Scope().SetTag("request_id", requestID)
	hub.Scope().SetTag("route", c.FullPath())
	hub.Scope().SetRequest(c.Request)
	hub.CaptureException(err)
}
