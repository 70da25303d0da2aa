package api

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/tidwall/gjson"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// unknownErrorMessage is used when a failed response carries none of the
// recognized message fields.
const unknownErrorMessage = "Unknown error"

// errorMessageFields are checked in order for a server-supplied message.
var errorMessageFields = []string{"detail", "error", "message"}

// classifyTransportError maps a failure that produced no HTTP response to
// exactly one RequestError kind.
func classifyTransportError(err error, endpoint string) *model.RequestError {
	kind := model.ErrKindNetwork

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = model.ErrKindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = model.ErrKindTimeout
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		kind = model.ErrKindConnectionRefused
	}

	return &model.RequestError{
		Kind:     kind,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}

// extractErrorMessage returns the first of detail, error, message found in a
// JSON error body. String values are returned as-is; objects and arrays are
// returned as raw JSON.
func extractErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return unknownErrorMessage
	}

	for _, field := range errorMessageFields {
		value := gjson.GetBytes(body, field)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}
		if value.Type == gjson.String {
			return value.Str
		}
		return value.Raw
	}
	return unknownErrorMessage
}
