// internal/form/submit.go
//
// Flota – Forms subsystem: consolidated Submit helper.
//
// Context
//   Handlers want one call that decodes the JSON body and validates it
//   against a form.  HandleSubmit provides that so component code stays
//   terse.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yanizio/flota/internal/validate"
)

// maxBody caps submitted payloads; dashboard forms are small.
const maxBody = 1 << 20

// HandleSubmit decodes r's JSON object body and validates it against formID.
// It returns ErrUnknownForm for unregistered IDs and a decode error for
// malformed bodies.  Numbers are kept as json.Number so no precision is lost.
func HandleSubmit(formID string, r *http.Request) (map[string]any, validate.FormResult, error) {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	dec.UseNumber()

	data := make(map[string]any)
	if err := dec.Decode(&data); err != nil {
		return nil, validate.FormResult{}, fmt.Errorf("decode form %s: %w", formID, err)
	}

	res, err := Validate(formID, data)
	if err != nil {
		return nil, validate.FormResult{}, err
	}
	return data, res, nil
}
