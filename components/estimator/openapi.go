package estimator

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-estimate/pkg/form"
)

//go:embed openapi.yaml
var schemaDocument []byte

var (
	schemaOnce     sync.Once
	estimateSchema *openapi3.SchemaRef
	schemaLoadErr  error
)

func loadEstimateSchema(ctx context.Context) (*openapi3.SchemaRef, error) {
	schemaOnce.Do(func() {
		loader := &openapi3.Loader{Context: ctx}
		doc, err := loader.LoadFromData(schemaDocument)
		if err != nil {
			schemaLoadErr = fmt.Errorf("estimator: load schema document: %w", err)
			return
		}
		if err := doc.Validate(ctx); err != nil {
			schemaLoadErr = fmt.Errorf("estimator: validate schema document: %w", err)
			return
		}
		ref, ok := doc.Components.Schemas["Estimate"]
		if !ok || ref == nil || ref.Value == nil {
			schemaLoadErr = errors.New("estimator: schema document missing Estimate schema")
			return
		}
		estimateSchema = ref
	})
	return estimateSchema, schemaLoadErr
}

// ValidateSubmissionSchema checks a submission payload against the embedded
// OpenAPI schema. It complements the form's own rules with structural checks
// on the decoded document.
func ValidateSubmissionSchema(ctx context.Context, sub form.Submission) error {
	ref, err := loadEstimateSchema(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("estimator: encode submission: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("estimator: decode submission: %w", err)
	}

	if err := ref.Value.VisitJSON(payload); err != nil {
		return fmt.Errorf("estimator: submission schema: %w", err)
	}
	return nil
}
