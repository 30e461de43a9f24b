package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
)

// ParseQueryInt reads an integer query parameter, returning defaultVal when
// absent. Non-numeric or out-of-range values produce a CodeValidation error
// naming the field.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	case n < min, n > max:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return n, nil
}
