// Package enricher walks an OpenAPI document and applies the annotators to
// every element the binding manifest ties to a symbol.
package enricher

import (
	"context"
	"maps"
	"slices"
	"sync/atomic"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/example/openapi-xmldoc/internal/binding"
	"github.com/example/openapi-xmldoc/pkg/annotate"
	"github.com/example/openapi-xmldoc/pkg/openapi"
	"github.com/example/openapi-xmldoc/pkg/xmldoc"
)

// DefaultConcurrency bounds how many operations are annotated at once.
const DefaultConcurrency = 8

// Stats counts the elements documentation was copied onto.
type Stats struct {
	Schemas       int
	Properties    int
	Operations    int
	RequestBodies int
}

// Enricher applies operation, schema and request body filters to a Spec.
type Enricher struct {
	bindings    *binding.Bindings
	operations  annotate.OperationFilter
	schemas     annotate.SchemaFilter
	bodies      annotate.RequestBodyFilter
	concurrency int
	annotateOps []annotate.Option
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithConcurrency sets the number of operations annotated in parallel.
// Values below one mean one.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n < 1 {
			n = 1
		}
		e.concurrency = n
	}
}

// WithHumanizer replaces the humanizer of the default filters.
func WithHumanizer(h xmldoc.Humanizer) Option {
	return func(e *Enricher) {
		e.annotateOps = append(e.annotateOps, annotate.WithHumanizer(h))
	}
}

// WithOperationFilter replaces the default operation filter.
func WithOperationFilter(f annotate.OperationFilter) Option {
	return func(e *Enricher) { e.operations = f }
}

// WithSchemaFilter replaces the default schema filter.
func WithSchemaFilter(f annotate.SchemaFilter) Option {
	return func(e *Enricher) { e.schemas = f }
}

// WithRequestBodyFilter replaces the default request body filter.
func WithRequestBodyFilter(f annotate.RequestBodyFilter) Option {
	return func(e *Enricher) { e.bodies = f }
}

// New returns an Enricher reading documentation from index. Filters not
// replaced by options are built from index.
func New(index *xmldoc.Index, bindings *binding.Bindings, opts ...Option) *Enricher {
	e := &Enricher{bindings: bindings, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(e)
	}
	if e.operations == nil {
		e.operations = annotate.NewOperationAnnotator(index, e.annotateOps...)
	}
	if e.schemas == nil {
		e.schemas = annotate.NewSchemaAnnotator(index, e.annotateOps...)
	}
	if e.bodies == nil {
		e.bodies = annotate.NewRequestBodyAnnotator(index, e.annotateOps...)
	}
	return e
}

// Enrich annotates spec in place. Component schemas are handled first and
// sequentially, since operations read them to coerce examples; operations
// then run concurrently. The first error stops the walk and is returned
// with the location of the element that caused it.
func (e *Enricher) Enrich(ctx context.Context, spec *openapi.Spec) (Stats, error) {
	var stats Stats
	if spec == nil {
		return stats, nil
	}

	if err := e.enrichSchemas(ctx, spec.Components, &stats); err != nil {
		return stats, err
	}

	var ops, bodies atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, path := range slices.Sorted(maps.Keys(spec.Paths)) {
		item := spec.Paths[path]
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				opDone, bodyDone, err := e.enrichOperation(gctx, op, spec.Components)
				if err != nil {
					return errors.Errorf("%s %s: %w", method, path, err)
				}
				if opDone {
					ops.Add(1)
				}
				if bodyDone {
					bodies.Add(1)
				}
				return nil
			})
		}
	}
	err := g.Wait()
	stats.Operations = int(ops.Load())
	stats.RequestBodies = int(bodies.Load())
	return stats, err
}

func (e *Enricher) enrichSchemas(ctx context.Context, components *openapi.Components, stats *Stats) error {
	if components == nil {
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(components.Schemas)) {
		schema := components.Schemas[name]
		sb, ok := e.bindings.Schema(name)
		if !ok || schema == nil {
			continue
		}

		outcome, err := e.schemas.AnnotateSchema(schema, sb.Type, components)
		if err != nil {
			return errors.Errorf("schema %s: %w", name, err)
		}
		slogctx.Debug(ctx, "annotated schema", "schema", name, "outcome", outcome)
		if outcome == annotate.Annotated {
			stats.Schemas++
		}

		for _, prop := range slices.Sorted(maps.Keys(sb.Properties)) {
			ps, ok := schema.Properties[prop]
			if !ok || ps == nil {
				slogctx.Debug(ctx, "bound property missing from schema", "schema", name, "property", prop)
				continue
			}
			outcome, err := e.schemas.AnnotateSchema(ps, sb.Properties[prop], components)
			if err != nil {
				return errors.Errorf("schema %s property %s: %w", name, prop, err)
			}
			if outcome == annotate.Annotated {
				stats.Properties++
			}
		}
	}
	return nil
}

func (e *Enricher) enrichOperation(ctx context.Context, op *openapi.Operation, components *openapi.Components) (bool, bool, error) {
	ob, ok := e.bindings.Operation(op.OperationID)
	if !ok {
		slogctx.Debug(ctx, "operation not bound", "operationId", op.OperationID)
		return false, false, nil
	}

	outcome := e.operations.AnnotateOperation(op, ob.Method)
	slogctx.Debug(ctx, "annotated operation", "operationId", op.OperationID, "outcome", outcome)

	body := op.RequestBody
	switch {
	case body == nil || ob.Body == nil:
		return outcome == annotate.Annotated, false, nil
	case body.Ref != "":
		// Shared request bodies belong to components and may be reached
		// from several operations at once.
		slogctx.Debug(ctx, "request body is a reference", "operationId", op.OperationID, "ref", body.Ref)
		return outcome == annotate.Annotated, false, nil
	}

	bodyOutcome, err := e.bodies.AnnotateRequestBody(body, ob.Body, components)
	if err != nil {
		return false, false, errors.Errorf("request body: %w", err)
	}
	return outcome == annotate.Annotated, bodyOutcome == annotate.Annotated, nil
}
