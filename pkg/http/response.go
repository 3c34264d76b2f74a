package http

import "github.com/labstack/echo/v4"

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   Error  `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// UserResponse is the success envelope of the signup, login and profile routes.
type UserResponse struct {
	Success bool        `json:"success"`
	User    interface{} `json:"user"`
}

func User(c echo.Context, status int, user interface{}) error {
	return c.JSON(status, UserResponse{Success: true, User: user})
}

func ErrorJSON(c echo.Context, status int, code, message, traceID string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: Error{Code: code, Message: message, Details: details}, TraceID: traceID})
}

// RequestID returns the id set by echo's RequestID middleware, falling back to
// the inbound header.
func RequestID(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
