package javadex

import (
	"context"
	"fmt"
	"io"

	"github.com/jward/javadex/internal/config"
	"github.com/jward/javadex/internal/diag"
	"github.com/jward/javadex/internal/indexer"
	"github.com/jward/javadex/internal/store"
)

// Engine is the composition root: it owns the Store and the Indexer,
// and exposes QueryEngine and DetailExtractor methods directly so a
// caller never has to wire leaf components together itself.
type Engine struct {
	store    *store.Store
	indexer  *indexer.Indexer
	query    *QueryEngine
	detail   *DetailExtractor
	resolver *ArtifactResolver
	diag     *diag.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDiagWriter redirects diagnostic output away from the default
// stderr side channel, useful in tests.
func WithDiagWriter(w io.Writer) Option {
	return func(e *Engine) {
		e.diag = diag.New(w)
	}
}

// New opens the store at cfg.StorePath, migrates it, and constructs
// every leaf component over it.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{diag: diag.New(nil)}
	for _, opt := range opts {
		opt(e)
	}

	st, err := store.NewStore(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("javadex: open store: %w", err)
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, fmt.Errorf("javadex: migrate store: %w", err)
	}

	e.store = st
	e.indexer = indexer.New(st, cfg, e.diag)
	e.query = NewQueryEngine(st)
	e.detail = NewDetailExtractor(cfg.DecompilerPath, cfg.JavapTool)
	e.resolver = NewArtifactResolver(string(cfg.VersionStrategy))
	return e, nil
}

// Close releases the Engine's store and watcher resources.
func (e *Engine) Close() error {
	e.indexer.Stop()
	return e.store.Close()
}

// Store returns the underlying Store for direct access by a caller
// that needs a capability not exposed through Engine's own methods.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Index runs one single-flight indexing pass. See Indexer.Index.
func (e *Engine) Index(ctx context.Context) error {
	return e.indexer.Index(ctx)
}

// Refresh clears every ingested row and indexes from scratch. See
// Indexer.Refresh.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.indexer.Refresh(ctx)
}

// StartWatching begins the debounced filesystem watcher and hourly
// periodic timer. See Indexer.StartWatching.
func (e *Engine) StartWatching(ctx context.Context) error {
	return e.indexer.StartWatching(ctx)
}

// StopWatching releases the watcher and ticker, if one was started.
func (e *Engine) StopWatching() {
	e.indexer.Stop()
}

// SearchArtifacts delegates to QueryEngine.
func (e *Engine) SearchArtifacts(ctx context.Context, substr string) (*PagedResult[store.Artifact], error) {
	return e.query.SearchArtifacts(ctx, substr)
}

// SearchClasses delegates to QueryEngine.
func (e *Engine) SearchClasses(ctx context.Context, query string) (*PagedResult[store.ClassMatch], error) {
	return e.query.SearchClasses(ctx, query)
}

// SearchImplementations delegates to QueryEngine.
func (e *Engine) SearchImplementations(ctx context.Context, fqName string) (*PagedResult[store.ClassMatch], error) {
	return e.query.SearchImplementations(ctx, fqName)
}

// SearchResources delegates to QueryEngine.
func (e *Engine) SearchResources(ctx context.Context, substr string) (*PagedResult[store.ResourceArtifactMatch], error) {
	return e.query.SearchResources(ctx, substr)
}

// GetResourcesForClass delegates to QueryEngine.
func (e *Engine) GetResourcesForClass(ctx context.Context, fqName string) (*PagedResult[store.Resource], error) {
	return e.query.GetResourcesForClass(ctx, fqName)
}

// GetClassDetail delegates to DetailExtractor.
func (e *Engine) GetClassDetail(ctx context.Context, a store.Artifact, className string, kind DetailKind) (*Detail, error) {
	return e.detail.GetClassDetail(ctx, a, className, kind)
}

// ResolveBestArtifact delegates to ArtifactResolver.
func (e *Engine) ResolveBestArtifact(candidates []store.Artifact) (*store.Artifact, error) {
	return e.resolver.ResolveBestArtifact(candidates)
}

// GetClassDetailResolved resolves the best artifact among every
// artifact carrying className, then extracts detail from it -- the
// path "get_class_details without a coordinate" takes per the external
// tool-surface contract.
func (e *Engine) GetClassDetailResolved(ctx context.Context, className string, kind DetailKind) (*Detail, *store.Artifact, error) {
	match, err := e.store.ClassByExactName(ctx, className)
	if err != nil {
		return nil, nil, fmt.Errorf("javadex: lookup class %s: %w", className, err)
	}
	if match == nil {
		return nil, nil, fmt.Errorf("%w: class %s", ErrNotFound, className)
	}
	best, err := e.resolver.ResolveBestArtifact(match.Artifacts)
	if err != nil {
		return nil, nil, err
	}
	detail, err := e.detail.GetClassDetail(ctx, *best, className, kind)
	if err != nil {
		return nil, best, err
	}
	return detail, best, nil
}
