package utils

import (
	"io"
	"labbridge-service/internal/pkg/exceptions"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New()

// DecodeAndValidate reads the request body into dst and runs struct
// validation; the body is fully consumed on return.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	if err := validate.Struct(dst); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}
