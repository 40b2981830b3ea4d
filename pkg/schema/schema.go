package schema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed tour.schema.json
var tourSchema []byte

const tourSchemaURL = "schema://tourflow/tour.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Raw returns the embedded JSON Schema document.
func Raw() []byte {
	return bytes.Clone(tourSchema)
}

func tourValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not raw bytes.
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(tourSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse tour schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(tourSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(tourSchemaURL)
	})
	return compiled, compileErr
}

// Validate checks a parsed JSON value (as produced by jsonschema.UnmarshalJSON)
// against the tour schema. Failures are returned as an *AggregateError wrapping
// domain.ErrInvalidTour.
func Validate(doc any) error {
	v, err := tourValidator()
	if err != nil {
		return err
	}
	err = v.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidTour, err)
	}

	p := message.NewPrinter(language.English)
	aggr := &AggregateError{}
	collect(verr, p, aggr)
	return fmt.Errorf("%w: %w", domain.ErrInvalidTour, aggr)
}

// collect flattens the cause tree into its leaves.
func collect(e *jsonschema.ValidationError, p *message.Printer, into *AggregateError) {
	if len(e.Causes) == 0 {
		into.Errors = append(into.Errors, &ValidationError{
			Key:    "/" + strings.Join(e.InstanceLocation, "/"),
			Reason: e.ErrorKind.LocalizedString(p),
		})
		return
	}
	for _, c := range e.Causes {
		collect(c, p, into)
	}
}
