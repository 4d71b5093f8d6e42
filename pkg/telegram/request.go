package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"reflect"
	"strconv"
	"strings"
)

var (
	inputFileType   = reflect.TypeFor[InputFile]()
	chatIDType      = reflect.TypeFor[ChatID]()
	jsonMarshalerTy = reflect.TypeFor[json.Marshaler]()
)

// encodeRequest serialises params for method. Calls without parameters
// are sent as GET. Params holding an upload, or extra attachments named
// by their attach:// reference, are sent as multipart/form-data.
// Everything else is a JSON body.
func encodeRequest(method string, params any, attachments []InputFile) (*Request, error) {
	if params == nil && len(attachments) == 0 {
		return &Request{Method: method, HTTPMethod: http.MethodGet}, nil
	}

	if len(attachments) > 0 || hasUpload(params) {
		body, contentType, err := encodeMultipart(params, attachments)
		if err != nil {
			return nil, fmt.Errorf("telegram: encode %s request: %w", method, err)
		}
		return &Request{Method: method, HTTPMethod: http.MethodPost, ContentType: contentType, Body: body}, nil
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("telegram: marshal %s request: %w", method, err)
	}
	return &Request{Method: method, HTTPMethod: http.MethodPost, ContentType: "application/json", Body: body}, nil
}

// paramField is one top-level parameter of a request struct.
type paramField struct {
	name      string
	omitEmpty bool
	value     reflect.Value
}

func paramFields(params any) []paramField {
	v := reflect.ValueOf(params)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return appendParamFields(nil, v)
}

func appendParamFields(fields []paramField, v reflect.Value) []paramField {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			fields = appendParamFields(fields, v.Field(i))
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		opts = "," + opts + ","
		fields = append(fields, paramField{
			name:      name,
			omitEmpty: strings.Contains(opts, ",omitempty,") || strings.Contains(opts, ",omitzero,"),
			value:     v.Field(i),
		})
	}
	return fields
}

func hasUpload(params any) bool {
	for _, f := range paramFields(params) {
		if f.value.Type() == inputFileType && f.value.Interface().(InputFile).IsUpload() {
			return true
		}
	}
	return false
}

func encodeMultipart(params any, attachments []InputFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range paramFields(params) {
		if f.omitEmpty && f.value.IsZero() {
			continue
		}
		if f.value.Type() == inputFileType {
			file := f.value.Interface().(InputFile)
			if file.IsUpload() {
				if err := writeFilePart(w, f.name, file); err != nil {
					return nil, "", err
				}
				continue
			}
		}
		s, err := formValue(f.value)
		if err != nil {
			return nil, "", fmt.Errorf("field %s: %w", f.name, err)
		}
		if err := w.WriteField(f.name, s); err != nil {
			return nil, "", err
		}
	}

	for _, file := range attachments {
		if err := writeFilePart(w, file.upload.attach, file); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, field string, file InputFile) error {
	src, err := file.upload.open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.upload.name, err)
	}
	defer src.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(file.upload.name)))
	h.Set("Content-Type", file.contentType())

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("read %s: %w", file.upload.name, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// formValue renders a non-upload parameter as a form field: strings raw,
// numbers and booleans in their JSON spelling, everything else as JSON.
func formValue(v reflect.Value) (string, error) {
	switch v.Type() {
	case chatIDType:
		return v.Interface().(ChatID).String(), nil
	case inputFileType:
		return v.Interface().(InputFile).String(), nil
	}
	if v.Type().Implements(jsonMarshalerTy) {
		return marshalString(v.Interface())
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	case reflect.Pointer:
		if v.IsNil() {
			return "null", nil
		}
		if v.Elem().Kind() == reflect.Bool {
			return strconv.FormatBool(v.Elem().Bool()), nil
		}
	}
	return marshalString(v.Interface())
}

func marshalString(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
