package ginserver

import (
	"strconv"
	"strings"
	"time"

	"staybook/internal/domain/shared/apperr"
	"staybook/internal/domain/shared/daterange"
)

// parseDate accepts YYYY-MM-DD or RFC3339. An empty value yields the zero
// time so the application layer can report the field as missing.
func parseDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	if t, ok := daterange.ParseDate(raw); ok {
		return t, nil
	}
	return time.Time{}, apperr.Newf(apperr.KindValidation, "%s must be a date (YYYY-MM-DD or RFC3339)", field)
}

func parseOptionalFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "%s must be a number", field)
	}
	return &v, nil
}
