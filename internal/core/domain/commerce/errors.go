// Package commerce defines the error taxonomy for upstream commerce API calls.
//
// TransportError covers network and HTTP-level failures and is generally
// retryable. APIError means the upstream reported a logical error; retrying
// without changing the input will not help. EmptyResponseError is a protocol
// violation (no data, no errors). UserInputError carries mutation-level
// userErrors such as an invalid variant id.
package commerce

import (
	"fmt"
	"strings"
)

// TransportError is a network failure or a non-2xx HTTP response.
type TransportError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("commerce: transport failure: %v", e.Err)
	}
	return fmt.Sprintf("commerce: HTTP %d: %s", e.StatusCode, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// GraphQLError is one entry of the upstream errors array.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions,omitempty"`
}

// APIError is raised when the response carries a non-empty errors array,
// regardless of HTTP status.
type APIError struct {
	Operation string
	Errors    []GraphQLError
}

func (e *APIError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return fmt.Sprintf("commerce: %s failed: %s", e.Operation, strings.Join(msgs, ", "))
}

// EmptyResponseError means the response carried neither data nor errors.
type EmptyResponseError struct {
	Operation string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("commerce: %s returned no data and no errors", e.Operation)
}

// UserError is one entry of a mutation payload's userErrors list.
type UserError struct {
	Message string   `json:"message"`
	Field   []string `json:"field,omitempty"`
}

// UserInputError is raised when a mutation succeeds at the GraphQL level but
// the payload reports user errors (e.g. unknown merchandise id).
type UserInputError struct {
	Operation string
	Errors    []UserError
}

func (e *UserInputError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("commerce: %s rejected", e.Operation)
	}
	return fmt.Sprintf("commerce: %s rejected: %s", e.Operation, e.Errors[0].Message)
}
