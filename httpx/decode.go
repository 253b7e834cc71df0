package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/schema"
)

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// DecodeJSON reads a JSON request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return Invalid("request body required", nil)
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return Invalid("request body required", nil)
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return Invalid("request body too large", nil)
		}
		return Invalid(fmt.Sprintf("malformed JSON: %v", err), nil)
	}
	return nil
}

// DecodeForm decodes the fields of an already parsed (multipart) form into v.
func DecodeForm(r *http.Request, v any) error {
	if err := formDecoder.Decode(v, r.PostForm); err != nil {
		return Invalid("malformed form", err.Error())
	}
	return nil
}

// MediaType returns the lowercased media type of the request body, without
// parameters, or "" when Content-Type is absent or malformed.
func MediaType(r *http.Request) string {
	typ, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return typ
}
