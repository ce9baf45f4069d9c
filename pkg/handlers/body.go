package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"intranet-portal-backend/pkg/apperrors"
)

// body is a decoded JSON object; numbers arrive as json.Number.
// Each key may be given in camelCase or snake_case, first present wins;
// JSON null counts as absent.
type body map[string]interface{}

func (b body) lookup(keys ...string) (interface{}, string, bool) {
	for _, k := range keys {
		if v, ok := b[k]; ok && v != nil {
			return v, k, true
		}
	}
	return nil, "", false
}

// has reports whether any key is present, null included.
func (b body) has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func (b body) str(keys ...string) (*string, error) {
	v, key, ok := b.lookup(keys...)
	if !ok {
		return nil, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return nil, &apperrors.InvalidFieldError{Field: key, Reason: "must be a string"}
	}
	return &s, nil
}

func (b body) boolean(keys ...string) (*bool, error) {
	v, key, ok := b.lookup(keys...)
	if !ok {
		return nil, nil
	}
	switch t := v.(type) {
	case bool:
		return &t, nil
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return &parsed, nil
		}
	}
	return nil, &apperrors.InvalidFieldError{Field: key, Reason: "must be a boolean"}
}

// id reads an optional positive id. The second result is false when no key
// is present at all; a present null or "" yields (nil, true).
func (b body) id(keys ...string) (*int64, bool, error) {
	if !b.has(keys...) {
		return nil, false, nil
	}
	v, key, ok := b.lookup(keys...)
	if !ok {
		return nil, true, nil
	}
	var (
		n   int64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		n, err = t.Int64()
	case float64:
		n = int64(t)
		if float64(n) != t {
			err = strconv.ErrSyntax
		}
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, true, nil
		}
		n, err = strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		err = strconv.ErrSyntax
	}
	if err != nil || n <= 0 {
		return nil, true, &apperrors.InvalidFieldError{Field: key, Reason: "must be a positive integer id"}
	}
	return &n, true, nil
}

// requiredName trims and checks a non-empty name.
func requiredName(s *string) (string, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", &apperrors.MissingRequiredFieldError{Field: "name"}
	}
	return strings.TrimSpace(*s), nil
}
