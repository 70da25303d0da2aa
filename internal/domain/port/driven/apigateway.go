package driven

import (
	"context"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// APIGateway defines the driven port for requests to the analytics backend.
// Every failure is returned as a *model.RequestError.
type APIGateway interface {
	// Call issues a single request and returns the raw response body. body,
	// when non-nil, is encoded as JSON. No retries are performed.
	Call(ctx context.Context, method, path string, body any, opts model.CallOptions) ([]byte, error)
}
