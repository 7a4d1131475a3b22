package validation

import (
	"reflect"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report errors under the JSON field name, not the Go field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// register struct-level validation for RegisterProductRequest: expiry must
	// be strictly after the manufacturing date, and a temperature range must
	// have min < max when both bounds are present.
	v.RegisterStructValidation(registerProductStructValidation, RegisterProductRequest{})

	return v
}

func registerProductStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(RegisterProductRequest)

	if req.ExpiryDate != "" && req.ManufacturingDate != "" {
		mfg, errM := time.Parse(DateLayout, req.ManufacturingDate)
		exp, errE := time.Parse(DateLayout, req.ExpiryDate)
		// format errors are reported by the datetime tag; only compare when both parse
		if errM == nil && errE == nil && !exp.After(mfg) {
			sl.ReportError(req.ExpiryDate, "expiry_date", "ExpiryDate", "expiry_after_manufacturing", "")
		}
	}

	if req.TempMin != nil && req.TempMax != nil && *req.TempMin >= *req.TempMax {
		sl.ReportError(req.TempMax, "temp_max", "TempMax", "temp_range", "")
	}
}
