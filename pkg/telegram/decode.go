package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Decode maps a JSON value onto T.
//
// Struct fields whose json tag carries omitempty or omitzero are optional:
// they may be absent or null and then keep their zero value (nil for
// pointers and slices). Every other field is required; a missing or null
// required field yields a *MappingError naming the field path, as does a
// value of the wrong JSON type. Invalid JSON yields a *DecodeError.
func Decode[T any](data []byte) (T, error) {
	var v T
	if err := decodeInto(data, &v); err != nil {
		return v, err
	}
	return v, nil
}

func decodeInto(data []byte, v any) error {
	t := reflect.TypeOf(v).Elem()

	if err := json.Unmarshal(data, v); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return &DecodeError{Reason: "invalid JSON", Err: err}
		}
		return mappingErrorFrom(t, err)
	}

	return checkRequired(t, data, "")
}

func mappingErrorFrom(t reflect.Type, err error) *MappingError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		typeName := typeErr.Struct
		if typeName == "" {
			typeName = typeNameOf(t)
		}
		return &MappingError{
			Type:   typeName,
			Field:  typeErr.Field,
			Reason: fmt.Sprintf("cannot use JSON %s as %s", typeErr.Value, typeErr.Type),
		}
	}
	return &MappingError{Type: typeNameOf(t), Reason: err.Error()}
}

// fieldPlan describes one JSON key of a struct type.
type fieldPlan struct {
	name     string
	typ      reflect.Type
	required bool
}

var (
	plans         sync.Map // reflect.Type -> []fieldPlan
	unmarshalerTy = reflect.TypeFor[json.Unmarshaler]()
)

func planFor(t reflect.Type) []fieldPlan {
	if p, ok := plans.Load(t); ok {
		return p.([]fieldPlan)
	}
	fields := collectFields(t, nil)
	actual, _ := plans.LoadOrStore(t, fields)
	return actual.([]fieldPlan)
}

func collectFields(t reflect.Type, fields []fieldPlan) []fieldPlan {
	for i := range t.NumField() {
		f := t.Field(i)
		tag, hasTag := f.Tag.Lookup("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				fields = collectFields(ft, fields)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if !hasTag || name == "" {
			name = f.Name
		}

		opts = "," + opts + ","
		optional := strings.Contains(opts, ",omitempty,") || strings.Contains(opts, ",omitzero,")
		fields = append(fields, fieldPlan{name: name, typ: f.Type, required: !optional})
	}
	return fields
}

// checkRequired walks data alongside t and reports the first required field
// that is missing or null. Type mismatches were already rejected by
// json.Unmarshal, so shape errors here are ignored.
func checkRequired(t reflect.Type, data json.RawMessage, path string) error {
	if isNull(data) {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			return nil
		}
		return &MappingError{Type: typeNameOf(t), Field: path, Reason: "value is null"}
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerTy) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		for _, f := range planFor(t) {
			fieldPath := joinPath(path, f.name)
			raw, ok := obj[f.name]
			if !ok || isNull(raw) {
				if f.required {
					return &MappingError{Type: typeNameOf(t), Field: fieldPath, Reason: "required field is missing"}
				}
				continue
			}
			if err := checkRequired(f.typ, raw, fieldPath); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		for i, item := range items {
			if err := checkRequired(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), jsonNull)
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func typeNameOf(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// decodeResult maps an envelope result and stamps the API method on errors.
func decodeResult[T any](method string, raw json.RawMessage) (T, error) {
	v, err := Decode[T](raw)
	if err != nil {
		var mapErr *MappingError
		if errors.As(err, &mapErr) {
			mapErr.Method = method
		}
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			decErr.Method = method
		}
		return v, err
	}
	return v, nil
}
