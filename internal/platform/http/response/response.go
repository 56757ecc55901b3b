// Package response defines the JSON envelopes shared by every feature's handlers.
package response

// ErrorResponse is the body of every non-2xx response.
// Details carries the underlying error text for unexpected failures only.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is the body of successful calls that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}
