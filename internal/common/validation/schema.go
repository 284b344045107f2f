package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"yogyatha-workers/internal/models"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (vr *ValidationResult) add(field, message, code string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message, Code: code})
	vr.Valid = false
}

// GetErrorMessages returns "field: message" strings for every error.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) Error() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

func validateCompiled(schema *gojsonschema.Schema, document interface{}) (*ValidationResult, error) {
	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	vr := &ValidationResult{Valid: true}
	for _, desc := range result.Errors() {
		vr.add(desc.Field(), desc.Description(), strings.ToUpper(desc.Type()))
	}
	return vr, nil
}

// ==========================
// Scheme documents
// ==========================

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// SchemeSchema is the JSON schema every scheme written to the catalog must satisfy,
// whether it was entered by an administrator or discovered by the AI agent.
func SchemeSchema() map[string]interface{} {
	nonEmptyString := map[string]interface{}{"type": "string", "minLength": 1}
	localized := map[string]interface{}{
		"type":     "object",
		"required": []string{"en"},
		"properties": map[string]interface{}{
			"en": nonEmptyString,
		},
	}

	return map[string]interface{}{
		"type":     "object",
		"required": []string{"name", "description", "eligibility", "applyLink"},
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "string"},
			"icon":        map[string]interface{}{"type": "string"},
			"name":        localized,
			"description": localized,
			"applyLink":   nonEmptyString,
			"benefits":    map[string]interface{}{"type": []string{"object", "null"}},
			"documents":   map[string]interface{}{"type": []string{"object", "null"}},
			"eligibility": map[string]interface{}{
				"type":     "object",
				"required": []string{"minAge", "maxAge", "maxIncome", "states", "categories", "roles"},
				"properties": map[string]interface{}{
					"minAge":    map[string]interface{}{"type": "integer", "minimum": 0},
					"maxAge":    map[string]interface{}{"type": "integer", "minimum": 0},
					"maxIncome": map[string]interface{}{"type": "integer", "minimum": 0},
					"states": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items":    nonEmptyString,
					},
					"categories": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items":    map[string]interface{}{"enum": enumOf(models.Categories)},
					},
					"roles": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items":    map[string]interface{}{"enum": enumOf(models.Roles)},
					},
					"genders": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"enum": enumOf(models.Genders)},
					},
				},
			},
		},
	}
}

var (
	schemeSchemaOnce sync.Once
	schemeSchema     *gojsonschema.Schema
	schemeSchemaErr  error
)

// ValidateScheme checks a scheme against SchemeSchema plus the cross-field age rule.
func ValidateScheme(scheme models.Scheme) (*ValidationResult, error) {
	schemeSchemaOnce.Do(func() {
		schemeSchema, schemeSchemaErr = gojsonschema.NewSchema(gojsonschema.NewGoLoader(SchemeSchema()))
	})
	if schemeSchemaErr != nil {
		return nil, fmt.Errorf("invalid scheme schema: %w", schemeSchemaErr)
	}

	vr, err := validateCompiled(schemeSchema, scheme)
	if err != nil {
		return nil, err
	}

	if scheme.Eligibility.MinAge > scheme.Eligibility.MaxAge {
		vr.add("eligibility.minAge", "minAge must not exceed maxAge", "AGE_RANGE")
	}
	return vr, nil
}

// ==========================
// Profiles
// ==========================

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateProfile checks a profile before it is persisted.
func ValidateProfile(p models.Profile) *ValidationResult {
	vr := &ValidationResult{Valid: true}

	if !isoDate.MatchString(p.DateOfBirth) || !ValidateDate(p.DateOfBirth) {
		vr.add("dob", "must be a calendar date in YYYY-MM-DD format", "INVALID_DATE")
	}
	if p.Income < 0 {
		vr.add("income", "must not be negative", "MIN_VALUE_VIOLATION")
	}
	if !models.IsKnownState(p.State) {
		vr.add("state", fmt.Sprintf("unknown state %q", p.State), "ENUM_VIOLATION")
	}
	if !p.Category.Valid() {
		vr.add("category", fmt.Sprintf("must be one of %s", strings.Join(enumOf(models.Categories), ", ")), "ENUM_VIOLATION")
	}
	if !p.Role.Valid() {
		vr.add("role", fmt.Sprintf("must be one of %s", strings.Join(enumOf(models.Roles), ", ")), "ENUM_VIOLATION")
	}
	if p.Gender != "" && !p.Gender.Valid() {
		vr.add("gender", fmt.Sprintf("must be one of %s", strings.Join(enumOf(models.Genders), ", ")), "ENUM_VIOLATION")
	}

	return vr
}

// ==========================
// Field helpers
// ==========================

// ValidateDate reports whether s is a real calendar date in models.DateLayout.
func ValidateDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	emailPattern := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailPattern.MatchString(email)
}

// ValidatePhone accepts E.164 numbers, which is what SNS requires.
func ValidatePhone(phone string) bool {
	phonePattern := regexp.MustCompile(`^\+[1-9]\d{9,14}$`)
	return phonePattern.MatchString(phone)
}
