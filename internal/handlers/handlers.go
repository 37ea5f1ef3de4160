package handlers

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/yukikurage/todo-api/internal/validation"
)

// bindObject reads the request body and validates it against schema. The
// returned map only holds keys the client actually sent.
func bindObject(c *gin.Context, schema *jsonschema.Schema) (map[string]any, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, &validation.Error{Message: "Invalid request body"}
	}
	return validation.DecodeObject(schema, raw)
}

// stringField returns body[key] when it is a string. Schemas have already
// rejected other types.
func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

// optionalString returns a pointer to body[key] when the key was sent as a
// string.
func optionalString(body map[string]any, key string) *string {
	s, ok := body[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func logInternal(logger *log.Logger, c *gin.Context, err error) {
	logger.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
}
