package blocks

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrStreamShape = errors.New("blocks: stream shape invalid")

// streamSchema describes the stored form of a stream: an array of
// {id, type, value} objects. Nested streams inside values are checked
// while walking.
const streamSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["type", "value"],
    "properties": {
      "id": {"type": "string"},
      "type": {"type": "string", "minLength": 1},
      "value": {}
    }
  }
}`

// ShapeIssue captures a single schema failure.
type ShapeIssue struct {
	Location string
	Message  string
}

// ShapeError lists the places where a stream document does not match the
// stream schema.
type ShapeError struct {
	Issues []ShapeIssue
	Cause  error
}

func (e *ShapeError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrStreamShape.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ShapeError) Unwrap() error {
	return ErrStreamShape
}

// ShapeIssues extracts schema issues from an error.
func ShapeIssues(err error) []ShapeIssue {
	if err == nil {
		return nil
	}
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) && shapeErr != nil {
		return shapeErr.Issues
	}
	return []ShapeIssue{{Message: err.Error()}}
}

var (
	streamSchemaOnce     sync.Once
	streamSchemaCompiled *jsonschema.Schema
	streamSchemaErr      error
)

func compiledStreamSchema() (*jsonschema.Schema, error) {
	streamSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("stream.json", strings.NewReader(streamSchema)); err != nil {
			streamSchemaErr = err
			return
		}
		streamSchemaCompiled, streamSchemaErr = compiler.Compile("stream.json")
	})
	return streamSchemaCompiled, streamSchemaErr
}

// checkShape validates a decoded JSON document against the stream schema.
func checkShape(document any) error {
	schema, err := compiledStreamSchema()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStreamShape, err)
	}
	if err := schema.Validate(document); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &ShapeError{Issues: collectShapeIssues(validationErr), Cause: err}
		}
		return &ShapeError{Issues: []ShapeIssue{{Message: err.Error()}}, Cause: err}
	}
	return nil
}

func collectShapeIssues(err *jsonschema.ValidationError) []ShapeIssue {
	if err == nil {
		return nil
	}
	issues := []ShapeIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ShapeIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
