package types

import "github.com/pawfinder/pawfinder-backend/pkg/pagination"

// SuccessEnvelope wraps every non-paginated success payload.
type SuccessEnvelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListEnvelope wraps paginated collection payloads.
type ListEnvelope struct {
	Data       any             `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

// ErrorEnvelope is the error body shape: a human-readable message plus
// optional field-level details.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}
