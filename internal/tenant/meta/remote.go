// internal/tenant/meta/remote.go
//
// REST tenant source.  Fetches `GET {backend}/empresas` through the gateway
// client and expects a JSON array of tenant records.

package meta

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/gateway"
	"github.com/yanizio/flota/internal/tenant"
)

// DefaultRemotePath is the backend listing endpoint.
const DefaultRemotePath = "/empresas"

// Remote is a tenant.Source backed by the REST API.
type Remote struct {
	client gateway.Client
	path   string
	log    *zap.SugaredLogger
}

// NewRemote returns a source that lists tenants from path on client.
func NewRemote(client gateway.Client, path string, log *zap.SugaredLogger) *Remote {
	if path == "" {
		path = DefaultRemotePath
	}
	if log == nil {
		log = zap.S()
	}
	return &Remote{client: client, path: path, log: log}
}

// List implements tenant.Source.
func (r *Remote) List(ctx context.Context) ([]tenant.Tenant, error) {
	resp, err := r.client.Get(ctx, r.path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", r.path, err)
	}
	var ts []tenant.Tenant
	if err := json.Unmarshal(resp.Data, &ts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return Check(ts, r.log), nil
}
