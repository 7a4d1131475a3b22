package validation

import (
	"fmt"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// FieldErrors maps a field namespace to a short machine-readable reason.
// It is produced before any network call is made, so a FieldErrors result
// guarantees no side effect happened.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ToFieldErrors converts a validator error into FieldErrors keyed by the JSON
// field name with the violated tag as the reason.
func ToFieldErrors(err error) FieldErrors {
	out := FieldErrors{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, f := range ve {
			out[f.Field()] = f.Tag()
		}
	} else {
		out["request"] = err.Error()
	}
	return out
}
