// Package apidocs loads the OpenAPI document served at /docs/api and uses it
// to validate JSON request bodies of the v1 API.
package apidocs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const FilePath = "public/docs/v1/openapi.yml"

var ErrUnknownOperation = errors.New("operation not documented")

type Document struct {
	doc *openapi3.T
}

// Load reads and validates the document at path.
func Load(ctx context.Context, path string) (*Document, error) {
	doc, err := openapi3.NewLoader().LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return newDocument(ctx, doc)
}

func LoadData(ctx context.Context, data []byte) (*Document, error) {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return newDocument(ctx, doc)
}

func newDocument(ctx context.Context, doc *openapi3.T) (*Document, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return &Document{doc: doc}, nil
}

func (d *Document) Title() string {
	return d.doc.Info.Title
}

// ValidateRequestBody checks body against the JSON request schema of the
// documented operation. Paths are relative to the /api/v1 server url.
func (d *Document) ValidateRequestBody(method, path string, body []byte) error {
	item := d.doc.Paths.Value(path)
	if item == nil {
		return fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil {
		return fmt.Errorf("%w: %s %s", ErrUnknownOperation, method, path)
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}

	rb := op.RequestBody.Value
	if len(body) == 0 {
		if rb.Required {
			return errors.New("request body is required")
		}
		return nil
	}
	media := rb.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("request body is not valid JSON: %w", err)
	}
	return media.Schema.Value.VisitJSON(value)
}
