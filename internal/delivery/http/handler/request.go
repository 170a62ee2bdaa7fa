package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"medilink-api/internal/delivery/dto"
	"medilink-api/pkg/response"
	"medilink-api/pkg/storage"
	"medilink-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxUploadBytes = 32 << 20

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}

// decodeJSONFields is decodeJSON for bodies whose type mismatches should be
// listed alongside validation failures. Such values are left at their zero
// value and reported per field; malformed JSON is still a 400.
func decodeJSONFields(w http.ResponseWriter, r *http.Request, v interface{}) (map[string]string, bool) {
	fields := map[string]string{}

	err := json.NewDecoder(r.Body).Decode(v)
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fields[typeErr.Field] = fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)
	default:
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}

	return fields, true
}

func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return false
	}
	return true
}

// validate writes a single 422 listing every failing field: the validator's
// findings plus any conversion errors collected before it ran.
func validate(w http.ResponseWriter, v *validator.CustomValidator, req interface{}, conversion ...map[string]string) bool {
	fields := map[string]string{}
	err := v.Validate(req)
	if err != nil {
		fields = v.FormatValidationErrors(err)
	}
	for _, errs := range conversion {
		for field, message := range errs {
			fields[field] = message
		}
	}

	if err != nil || len(fields) > 0 {
		response.ValidationError(w, fields)
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// form reads typed values out of a parsed multipart form and collects
// conversion errors per field.
type form struct {
	r      *http.Request
	errors map[string]string
}

func newForm(r *http.Request) *form {
	return &form{r: r, errors: map[string]string{}}
}

// values returns the values sent as key or key[].
func (f *form) values(key string) []string {
	if f.r.MultipartForm == nil {
		return nil
	}
	if values, ok := f.r.MultipartForm.Value[key]; ok {
		return values
	}
	return f.r.MultipartForm.Value[key+"[]"]
}

func (f *form) String(key string) string {
	if values := f.values(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

func (f *form) OptionalString(key string) *string {
	values := f.values(key)
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

func (f *form) Int(key string) int {
	if v := f.OptionalInt(key); v != nil {
		return *v
	}
	return 0
}

func (f *form) OptionalInt(key string) *int {
	raw := f.OptionalString(key)
	if raw == nil || *raw == "" {
		return nil
	}
	n, err := strconv.Atoi(*raw)
	if err != nil {
		f.errors[key] = key + " must be an integer"
		return nil
	}
	return &n
}

func (f *form) OptionalBool(key string) *bool {
	raw := f.OptionalString(key)
	if raw == nil || *raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(*raw)
	if err != nil {
		f.errors[key] = key + " must be a boolean"
		return nil
	}
	return &b
}

func (f *form) List(key string) dto.StringList {
	values := f.values(key)
	if len(values) == 0 {
		return nil
	}
	return dto.ParseStringList(values...)
}

func (f *form) CommaList(key string) dto.CommaList {
	raw := f.OptionalString(key)
	if raw == nil {
		return nil
	}
	return dto.SplitCommaList(*raw)
}

func (f *form) Files(key string) []storage.File {
	if f.r.MultipartForm == nil {
		return nil
	}
	headers, ok := f.r.MultipartForm.File[key]
	if !ok {
		headers = f.r.MultipartForm.File[key+"[]"]
	}

	files := make([]storage.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			f.errors[key] = "failed to read " + header.Filename
			continue
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			f.errors[key] = "failed to read " + header.Filename
			continue
		}
		files = append(files, storage.File{Name: header.Filename, Data: data})
	}
	return files
}

// Valid writes a 422 with the collected conversion errors, if any.
func (f *form) Valid(w http.ResponseWriter) bool {
	if len(f.errors) > 0 {
		response.ValidationError(w, f.errors)
		return false
	}
	return true
}
