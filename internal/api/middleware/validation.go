package middleware

import (
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rvc-service/internal/api/errors"
	"rvc-service/internal/app/audio"
)

// AudioField is the multipart field carrying uploaded audio.
const AudioField = "audio"

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// LimitBody caps the request body. Multipart framing gets a small allowance on top of limit.
func LimitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+64<<10)
		}
		c.Next()
	}
}

// ValidateForm binds multipart form fields into req and checks struct tags, then domain rules.
// A missing required field yields "<field> is required".
func ValidateForm(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindWith(req, binding.FormMultipart); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.NewTooLargeError(maxErr.Limit)
		}

		var validationErrs validator.ValidationErrors
		if !stderrors.As(err, &validationErrs) {
			return errors.NewValidationError("Invalid form data", map[string]string{"form": err.Error()})
		}

		details := make(map[string]string)
		message := ""
		for _, fieldError := range validationErrs {
			field := formFieldName(req, fieldError)
			switch fieldError.Tag() {
			case "required":
				details[field] = "is required"
			case "oneof":
				details[field] = "must be one of the allowed values"
			default:
				details[field] = "is invalid"
			}
			if message == "" {
				message = field + " " + details[field]
			}
		}
		return errors.NewValidationError(message, details)
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AudioFile returns the uploaded audio part after checking presence, size and extension.
func AudioFile(c *gin.Context, maxBytes int64) (*multipart.FileHeader, error) {
	header, err := c.FormFile(AudioField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, errors.NewTooLargeError(maxBytes)
		}
		return nil, errors.NewValidationError("No audio file provided", map[string]string{AudioField: "is required"})
	}

	if header.Filename == "" {
		return nil, errors.NewValidationError("No audio file provided", map[string]string{AudioField: "is required"})
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, errors.NewTooLargeError(maxBytes)
	}
	if !audio.IsSupported(header.Filename) {
		return nil, errors.NewValidationError("Unsupported audio format", map[string]string{
			AudioField: "must be one of " + strings.Join(audio.SupportedExtensions, ", "),
		})
	}
	return header, nil
}

// formFieldName maps a struct field back to its form tag.
func formFieldName(req interface{}, fieldError validator.FieldError) string {
	field := strings.ToLower(fieldError.Field())
	if t := structType(req); t != nil {
		if f, ok := t.FieldByName(fieldError.StructField()); ok {
			if tag := f.Tag.Get("form"); tag != "" {
				return strings.Split(tag, ",")[0]
			}
		}
	}
	return field
}

func structType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
