package http

import (
	"net/http"
	"time"

	xutil "AstroCore/pkg/util"
)

// ParseTimeParam parses the raw value of parameter name. An empty value yields
// def. Accepted forms are those of util.ParseTime; a malformed one is a 400 with the parameter as field.
func ParseTimeParam(name, raw string, def time.Time) (time.Time, error) {
	if raw == "" {
		return def, nil
	}
	t, ok := xutil.ParseTime(raw)
	if !ok {
		return time.Time{}, NewAppError("ERR_INVALID_TIME", name, name+" must be RFC3339, a date or unix seconds", http.StatusBadRequest).
			WithParam("value", raw)
	}
	return t.UTC(), nil
}
