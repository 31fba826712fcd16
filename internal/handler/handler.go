// internal/handler/handler.go
package handler

import (
	"fmt"
	"strings"

	val "crediwise/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// respondError writes the {"message": ...} body the frontend reads.
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// readObject decodes the request body as a JSON object. Missing or malformed
// bodies decode to an empty object.
func readObject(c *gin.Context) map[string]any {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		return map[string]any{}
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

// optionalString returns v when it is a JSON string.
func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var errs []string
		for _, e := range verrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s: %w", strings.Join(errs, "; "), verrs)
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", e.Field())
	case "mailformat":
		return fmt.Sprintf("%s must be a valid e-mail address", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
