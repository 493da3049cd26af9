// Package contract embeds the OpenAPI description of the practice backend
// and validates response bodies against it.
package contract

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/intervista/pkg/ports"
)

//go:embed openapi.yaml
var rawSpec []byte

// Raw returns the embedded OpenAPI document.
func Raw() []byte {
	return rawSpec
}

var (
	loadOnce sync.Once
	loaded   *openapi3.T
	loadErr  error
)

// Load parses and validates the embedded document. The result is cached.
func Load() (*openapi3.T, error) {
	loadOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			loadErr = fmt.Errorf("failed to load openapi document: %w", err)
			return
		}
		if err := doc.Validate(loader.Context); err != nil {
			loadErr = fmt.Errorf("invalid openapi document: %w", err)
			return
		}
		loaded = doc
	})
	return loaded, loadErr
}

// Validator checks response bodies against the embedded document.
type Validator struct {
	doc *openapi3.T
}

var _ ports.ResponseValidator = (*Validator)(nil)

// NewValidator loads the document and returns a validator bound to it.
func NewValidator() (*Validator, error) {
	doc, err := Load()
	if err != nil {
		return nil, err
	}
	return &Validator{doc: doc}, nil
}

// Validate implements ports.ResponseValidator.
// Endpoints and status codes the document does not describe are accepted as-is.
func (v *Validator) Validate(method, endpoint string, status int, body []byte) error {
	path := "/" + strings.TrimPrefix(endpoint, "/")
	item := v.doc.Paths.Find(path)
	if item == nil {
		return nil
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil || op.Responses == nil {
		return nil
	}

	ref := op.Responses.Value(strconv.Itoa(status))
	if ref == nil {
		ref = op.Responses.Default()
	}
	if ref == nil || ref.Value == nil {
		return nil
	}

	media := ref.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("%s %s: body is not json: %w", method, endpoint, err)
	}
	if err := media.Schema.Value.VisitJSON(value); err != nil {
		return fmt.Errorf("%s %s (%d): %w", method, endpoint, status, err)
	}
	return nil
}

// Operations lists "METHOD /path" pairs described by the document, for diagnostics.
func Operations() ([]string, error) {
	doc, err := Load()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, path := range doc.Paths.InMatchingOrder() {
		item := doc.Paths.Value(path)
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			if item.GetOperation(method) != nil {
				out = append(out, method+" "+path)
			}
		}
	}
	return out, nil
}
