package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
)

// ParseQueryInt reads an integer query parameter. An absent or blank value
// yields defaultVal untouched; only a present value is range-checked against
// [min, max], so callers may pass a default outside the range to mean "unset".
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}
