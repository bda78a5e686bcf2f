// Package validate provides struct-tag validation with field-level messages.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must be present and not zero/empty
//	nullable            an explicit null (or nil pointer) skips the remaining rules
//	integer             whole number
//	boolean             "true","false","1","0" (or an actual bool)
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gt=N                number > N
//	gte=N               number >= N
//	lt=N                number < N
//	lte=N               number <= N
//	in=a|b|c            value must be one of the listed items
//
// Fields of type optional.Value[T] that were absent from the payload are
// skipped entirely; when present they are validated as their inner value.
// Numbers held as decimal.Decimal are compared exactly.
//
//	type Input struct {
//	    Name  optional.Value[string] `json:"name"  validate:"required,min=1,max=255"`
//	    SKU   optional.Value[string] `json:"sku"   validate:"nullable,max=50"`
//	    Price *decimal.Decimal       `json:"price" validate:"required,gt=0"`
//	    Sort  string                 `json:"sortBy" validate:"in=name|price"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// presence is implemented by optional.Value.
type presence interface {
	IsSet() bool
	IsNull() bool
	Raw() any
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v any) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := FieldName(field)
		rules := strings.Split(tag, ",")
		if msg := checkField(name, rules, rv.Field(i)); msg != "" {
			errs[name] = msg
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func checkField(name string, rules []string, value reflect.Value) string {
	required := hasRule(rules, "required")
	nullable := hasRule(rules, "nullable")

	if p, ok := value.Interface().(presence); ok {
		if !p.IsSet() {
			return ""
		}
		if p.IsNull() {
			if nullable {
				return ""
			}
			return fmt.Sprintf("The %s field may not be null.", name)
		}
		value = reflect.ValueOf(p.Raw())
	}

	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			if required {
				return fmt.Sprintf("The %s field is required.", name)
			}
			return ""
		}
		value = value.Elem()
	}

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" || rule == "nullable" {
			continue
		}
		if msg := applyRule(rule, name, value); msg != "" {
			return msg
		}
	}
	return ""
}

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "integer":
		if !isIntKind(v) {
			if _, err := strconv.ParseInt(raw(v), 10, 64); err != nil {
				return fmt.Sprintf("The %s field must be an integer.", field)
			}
		}
	case "boolean":
		if v.Kind() != reflect.Bool {
			switch strings.ToLower(raw(v)) {
			case "true", "false", "1", "0":
			default:
				return fmt.Sprintf("The %s field must be true or false.", field)
			}
		}

	case "min":
		if isNumeric(v) {
			if compare(v, param) < 0 {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if length(v) < mustAtoi(param) {
			if mustAtoi(param) == 1 {
				return fmt.Sprintf("The %s field is required.", field)
			}
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		if isNumeric(v) {
			if compare(v, param) > 0 {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if length(v) > mustAtoi(param) {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if compare(v, param) <= 0 {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if compare(v, param) < 0 {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lt":
		if compare(v, param) >= 0 {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}
	case "lte":
		if compare(v, param) > 0 {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}

	case "in":
		s := raw(v)
		for _, allowed := range strings.Split(param, "|") {
			if s == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

// FieldName returns the JSON name of a struct field.
func FieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name[:1]) + f.Name[1:]
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func raw(v reflect.Value) string {
	if v.Type() == decimalType {
		return v.Interface().(decimal.Decimal).String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	if v.Type() == decimalType {
		return false
	}
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	}
	return false
}

func isIntKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	if v.Type() == decimalType || isIntKind(v) {
		return true
	}
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

// compare returns the sign of v - param using exact decimal arithmetic.
// Non-numeric values compare by their string form parsed as a number.
func compare(v reflect.Value, param string) int {
	bound, err := decimal.NewFromString(strings.TrimSpace(param))
	if err != nil {
		return 0
	}
	return toDecimal(v).Cmp(bound)
}

func toDecimal(v reflect.Value) decimal.Decimal {
	if v.Type() == decimalType {
		return v.Interface().(decimal.Decimal)
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromUint64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(v.Float())
	}
	d, _ := decimal.NewFromString(raw(v))
	return d
}

func length(v reflect.Value) int {
	return len([]rune(raw(v)))
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
