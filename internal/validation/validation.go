// Package validation holds the single rule set every request passes through
// before it reaches a store: JSON Schema checks for request shape and enum
// membership, plus the field rules that schemas cannot express (trimming,
// lengths measured after trimming).
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
)

// ErrInvalidInput is matched by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes one offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a validation failure with a client-safe message.
type Error struct {
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return ErrInvalidInput
}

// NewError creates an Error for a single field.
func NewError(field, message string) *Error {
	return &Error{
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://todo-api.local/schemas/"

// Request schemas
var (
	SignupSchema     = mustCompile("signup.json")
	LoginSchema      = mustCompile("login.json")
	UsernameSchema   = mustCompile("username.json")
	PasswordSchema   = mustCompile("password.json")
	TaskCreateSchema = mustCompile("task_create.json")
	TaskUpdateSchema = mustCompile("task_update.json")
	GenerateSchema   = mustCompile("generate.json")
)

func compile(name string) (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	url := schemaBaseURL + name
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return schema, nil
}

func mustCompile(name string) *jsonschema.Schema {
	schema, err := compile(name)
	if err != nil {
		panic(err)
	}
	return schema
}

// DecodeObject parses raw as a JSON object and validates it against schema.
// The returned map only ever holds values the schema accepted.
func DecodeObject(schema *jsonschema.Schema, raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &Error{Message: "Invalid request body"}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Message: "Invalid request body"}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &Error{Message: "Invalid request body"}
	}

	if err := schema.Validate(obj); err != nil {
		return nil, schemaError(err)
	}
	return obj, nil
}

func schemaError(err error) *Error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Error{Message: "Invalid request body"}
	}

	result := &Error{}
	collectSchemaErrors(result, ve)

	if len(result.Fields) == 0 {
		result.Message = "Invalid request body"
		return result
	}

	first := result.Fields[0]
	if first.Field == "" {
		result.Message = first.Message
	} else {
		result.Message = "Invalid " + first.Field
	}
	return result
}

func collectSchemaErrors(result *Error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		field := strings.TrimPrefix(err.InstanceLocation, "/")
		keyword := err.KeywordLocation[strings.LastIndex(err.KeywordLocation, "/")+1:]
		if keyword == "required" {
			result.Fields = append(result.Fields, FieldError{Message: missingFieldMessage(err.Message)})
			return
		}
		result.Fields = append(result.Fields, FieldError{Field: field, Message: keywordMessages.get(keyword)})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

type messageTable map[string]string

func (m messageTable) get(keyword string) string {
	if msg, ok := m[keyword]; ok {
		return msg
	}
	return "Invalid value"
}

// keywordMessages maps failed schema keywords to client-facing texts.
var keywordMessages = messageTable{
	"type":      "Wrong type",
	"enum":      "Not one of the allowed values",
	"format":    "Invalid format, expected YYYY-MM-DD",
	"minLength": "Must not be empty",
	"maxLength": "Too long",
	"pattern":   "Must not be empty",
}

// missingFieldMessage lists the quoted property names from a required
// keyword failure.
func missingFieldMessage(raw string) string {
	var names []string
	for i, part := range strings.Split(raw, "'") {
		if i%2 == 1 && part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 {
		return "Missing required field"
	}
	return "Missing required field: " + strings.Join(names, ", ")
}

// Username trims raw and enforces the length bounds.
func Username(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(username)
	if n < constants.MinUsernameLength {
		return "", NewError("username", fmt.Sprintf("Username must be at least %d characters", constants.MinUsernameLength))
	}
	if n > constants.MaxUsernameLength {
		return "", NewError("username", fmt.Sprintf("Username must be at most %d characters", constants.MaxUsernameLength))
	}
	return username, nil
}

// Password enforces the password length bounds. field names the request key
// for the error details.
func Password(field, password string) error {
	if len(password) < constants.MinPasswordLength {
		return NewError(field, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	}
	if len(password) > constants.MaxPasswordLength {
		return NewError(field, fmt.Sprintf("Password must be at most %d bytes", constants.MaxPasswordLength))
	}
	return nil
}

// Title trims raw and rejects an empty result.
func Title(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", NewError("title", "Title is required")
	}
	return title, nil
}

// Status rejects values outside the status enum.
func Status(s models.TaskStatus) error {
	if !s.Valid() {
		return NewError("status", "Invalid status")
	}
	return nil
}

// Priority rejects values outside the priority enum.
func Priority(p models.TaskPriority) error {
	if !p.Valid() {
		return NewError("priority", "Invalid priority")
	}
	return nil
}

// DueDate accepts only a real calendar date written as YYYY-MM-DD.
func DueDate(s string) error {
	parsed, err := time.Parse(time.DateOnly, s)
	if err != nil || parsed.Format(time.DateOnly) != s {
		return NewError("dueDate", "Invalid dueDate")
	}
	return nil
}
