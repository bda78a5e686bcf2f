// Package bind decodes and validates HTTP request input into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/inventory/config"
	"github.com/shashiranjanraj/inventory/pkg/validate"
)

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES (default 1 MiB).
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return map[string]string{
				typeErr.Field: fmt.Sprintf("The %s field must be of type %s.", typeErr.Field, typeErr.Type.String()),
			}, nil
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Query decodes URL query values into dest, matching keys to the fields'
// json names, then runs validation. Fields keep their preset values when the
// key is absent or empty, so callers set defaults before binding.
//
// Supported field kinds: string, int, bool, decimal.Decimal and pointers to them.
func Query(values url.Values, dest interface{}) map[string]string {
	errs := make(map[string]string)

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errs
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := validate.FieldName(field)
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		if msg := setField(rv.Field(i), name, raw); msg != "" {
			errs[name] = msg
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return validate.Struct(dest)
}

func setField(fv reflect.Value, name, raw string) string {
	if fv.Kind() == reflect.Ptr {
		target := reflect.New(fv.Type().Elem())
		if msg := setField(target.Elem(), name, raw); msg != "" {
			return msg
		}
		fv.Set(target)
		return ""
	}

	if fv.Type() == decimalType {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Sprintf("The %s field must be a number.", name)
		}
		fv.Set(reflect.ValueOf(d))
		return ""
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Sprintf("The %s field must be an integer.", name)
		}
		fv.SetInt(n)
	case reflect.Bool:
		switch strings.ToLower(raw) {
		case "true", "1":
			fv.SetBool(true)
		case "false", "0":
			fv.SetBool(false)
		default:
			return fmt.Sprintf("The %s field must be true or false.", name)
		}
	default:
		return fmt.Sprintf("The %s field has an unsupported type.", name)
	}
	return ""
}
