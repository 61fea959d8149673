package javadex

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jward/javadex/internal/store"
)

// PagedResult wraps a list of results with its count, the same envelope
// every list/search query returns. No pagination is applied: TotalCount
// is len(Items), counted after the store's own row caps.
type PagedResult[T any] struct {
	Items      []T
	TotalCount int
}

func pageOf[T any](items []T) *PagedResult[T] {
	return &PagedResult[T]{Items: items, TotalCount: len(items)}
}

// QueryEngine answers read-only discovery queries over Store. Every
// method here is safe to call concurrently with an in-progress index
// run; none of them mutate Store.
type QueryEngine struct {
	store *store.Store
}

// NewQueryEngine wraps an already-migrated Store.
func NewQueryEngine(st *store.Store) *QueryEngine {
	return &QueryEngine{store: st}
}

// SearchArtifacts matches substr against groupId or artifactId, capped
// at 50 rows.
func (q *QueryEngine) SearchArtifacts(ctx context.Context, substr string) (*PagedResult[store.Artifact], error) {
	artifacts, err := q.store.SearchArtifacts(ctx, substr)
	if err != nil {
		return nil, fmt.Errorf("search artifacts: %w", err)
	}
	return pageOf(artifacts), nil
}

const regexQueryPrefix = "regex:"

// SearchClasses dispatches on a cheap prefix inspection of query: a
// "regex:" prefix selects the host-regex path, any `*`/`?` selects the
// glob path, otherwise the term is treated as a free-text FTS fragment
// query. Results are grouped by class FQ-name, each with every artifact
// that carries it.
func (q *QueryEngine) SearchClasses(ctx context.Context, query string) (*PagedResult[store.ClassMatch], error) {
	var (
		matches []store.ClassMatch
		err     error
	)
	switch {
	case strings.HasPrefix(query, regexQueryPrefix):
		pattern := strings.TrimPrefix(query, regexQueryPrefix)
		re, compileErr := regexp.Compile(pattern)
		if compileErr != nil {
			return nil, fmt.Errorf("%w: invalid regex %q: %v", ErrInvalidQuery, pattern, compileErr)
		}
		matches, err = q.store.SearchClassesRegex(ctx, re.MatchString)
	case strings.ContainsAny(query, "*?"):
		matches, err = q.store.SearchClassesGlob(ctx, query)
	default:
		matches, err = q.store.SearchClassesFTS(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("search classes %q: %w", query, err)
	}
	return pageOf(matches), nil
}

// SearchImplementations returns the transitive closure of classes
// extending or implementing fqName, grouped by class.
func (q *QueryEngine) SearchImplementations(ctx context.Context, fqName string) (*PagedResult[store.ClassMatch], error) {
	matches, err := q.store.TransitiveDescendants(ctx, fqName)
	if err != nil {
		return nil, fmt.Errorf("search implementations of %s: %w", fqName, err)
	}
	return pageOf(matches), nil
}

// SearchResources matches substr against resource paths.
func (q *QueryEngine) SearchResources(ctx context.Context, substr string) (*PagedResult[store.ResourceArtifactMatch], error) {
	matches, err := q.store.SearchResourcesSubstring(ctx, substr)
	if err != nil {
		return nil, fmt.Errorf("search resources %q: %w", substr, err)
	}
	return pageOf(matches), nil
}

// GetResourcesForClass returns every resource a code generator would
// have produced fqName from.
func (q *QueryEngine) GetResourcesForClass(ctx context.Context, fqName string) (*PagedResult[store.Resource], error) {
	resources, err := q.store.ResourcesForClass(ctx, fqName)
	if err != nil {
		return nil, fmt.Errorf("resources for class %s: %w", fqName, err)
	}
	return pageOf(resources), nil
}
