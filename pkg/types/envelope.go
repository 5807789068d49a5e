package types

// SuccessEnvelope is the uniform success payload. Count is only set for list
// responses and Message for mutations that want a human-readable confirmation.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorEnvelope is the uniform failure payload. Error carries the
// machine-readable code, Message the public explanation.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
