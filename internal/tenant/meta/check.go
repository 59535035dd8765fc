package meta

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yanizio/flota/internal/tenant"
)

var records = validator.New(validator.WithRequiredStructEnabled())

// Check drops records that fail the tenant struct tags or reuse an id
// already seen.  Order is preserved.
func Check(in []tenant.Tenant, log *zap.SugaredLogger) []tenant.Tenant {
	if log == nil {
		log = zap.S()
	}
	seen := make(map[int]struct{}, len(in))
	out := in[:0:0]
	for _, t := range in {
		if err := records.Struct(t); err != nil {
			log.Warnw("skipping invalid tenant record", "id", t.ID, "err", err)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			log.Warnw("skipping duplicate tenant id", "id", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
