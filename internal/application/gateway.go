package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

// callJSON performs one gateway call and decodes a non-empty response body
// into out.
func callJSON(ctx context.Context, gw driven.APIGateway, method, path string, body, out any, opts model.CallOptions) error {
	data, err := gw.Call(ctx, method, path, body, opts)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
