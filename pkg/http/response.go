package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageBody is the {"message": ...} envelope used by mutation and error responses.
type MessageBody struct {
	Message string `json:"message"`
}

// MessageDetailsBody carries an error message plus the original failure detail.
// Only the predictions-fetch path attaches detail; everything else stays generic.
type MessageDetailsBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Message writes a {"message": ...} body with the given status.
func Message(c echo.Context, status int, msg string) error {
	return c.JSON(status, MessageBody{Message: msg})
}

// MessageWithDetails writes a message body carrying the underlying error text.
func MessageWithDetails(c echo.Context, status int, msg string, err error) error {
	details := "Unknown error"
	if err != nil {
		details = err.Error()
	}
	return c.JSON(status, MessageDetailsBody{Message: msg, Details: details})
}

// OK writes the payload as-is with a 200 status.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// FromAppError maps an AppError to its status and message; anything else
// becomes the supplied generic 500 message with no detail leaked.
func FromAppError(c echo.Context, err error, generic string) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return Message(c, appErr.Status, appErr.Message)
	}
	return Message(c, http.StatusInternalServerError, generic)
}
