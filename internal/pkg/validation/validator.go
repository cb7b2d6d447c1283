package validation

import (
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var discountCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{4,32}$`)

// New returns a validator that understands decimal amounts and discount codes.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})

	_ = v.RegisterValidation("discountcode", func(fl validatorv10.FieldLevel) bool {
		return discountCodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return v
}

// decimalValue lets numeric tags such as gt=0 apply to decimal fields.
func decimalValue(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := d.Float64()
		return f
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		f, _ := d.Decimal.Float64()
		return f
	}
	return nil
}
