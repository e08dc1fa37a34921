package network

import "fmt"

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	// ServerMessage is the error field of a JSON body, if there was one.
	ServerMessage string
	Body          string
}

func (e *StatusError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.ServerMessage)
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// ErrorResponse is returned when a 2xx response carries an error field.
type ErrorResponse struct {
	Message string
}

func (e *ErrorResponse) Error() string {
	return e.Message
}
