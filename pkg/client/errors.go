package client

import "fmt"

// APIError is a non-2xx response from the booking API. Message carries the
// server's message field verbatim when the server provided one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// errorFromResponse converts a failed response into an *APIError.
func errorFromResponse(resp *Response) error {
	return &APIError{
		Status:  resp.StatusCode,
		Message: GetErrorMessage(resp),
	}
}
