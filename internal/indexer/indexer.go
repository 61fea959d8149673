// Package indexer is the orchestrator: it synchronizes Scanner output
// into Store, drives per-artifact archive ingestion in bounded-parallel
// chunks, and owns the debounced filesystem watcher and the hourly
// periodic timer. Index and Refresh are the two single-flight entry
// points; everything else in this package supports one of them.
package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jward/javadex/internal/config"
	"github.com/jward/javadex/internal/diag"
	"github.com/jward/javadex/internal/scanner"
	"github.com/jward/javadex/internal/store"
)

// chunkSize bounds how many artifacts one worker pool is handed at a
// time. Each artifact still commits in its own transaction as soon as it
// is ingested, so indexing never holds one giant transaction open across
// the whole unindexed set.
const chunkSize = 50

// Indexer is the sole mutator of Store rows related to ingestion.
type Indexer struct {
	store *store.Store
	cfg   config.Config
	diag  *diag.Logger
	sf    *singleFlight

	watch *watchState // nil until StartWatching is called
}

// New constructs an Indexer over an already-migrated Store.
func New(st *store.Store, cfg config.Config, logger *diag.Logger) *Indexer {
	if logger == nil {
		logger = diag.New(nil)
	}
	return &Indexer{
		store: st,
		cfg:   cfg,
		diag:  logger,
		sf:    newSingleFlight(),
	}
}

// State reports the current lifecycle state, for diagnostics and tests.
func (ix *Indexer) State() State {
	return ix.sf.current()
}

// Index scans the configured roots, upserts every discovered artifact,
// and ingests every not-yet-indexed artifact in bounded-parallel
// chunks. A concurrent call while one is already in flight returns
// immediately without queuing, per the single-flight contract.
func (ix *Indexer) Index(ctx context.Context) error {
	if !ix.sf.tryEnterIndexing() {
		return nil
	}
	defer ix.sf.leave()
	return ix.runIndexPass(ctx)
}

// Refresh waits for any in-flight index to finish, then atomically
// clears every ingested row and index()s again. This never observes a
// partially-cleared store: RefreshAll runs inside one transaction.
func (ix *Indexer) Refresh(ctx context.Context) error {
	ix.sf.enterRefreshing()
	if err := ix.store.RefreshAll(ctx); err != nil {
		ix.sf.leave()
		return fmt.Errorf("refresh: %w", err)
	}
	ix.sf.refreshingToIndexing()
	defer ix.sf.leave()
	return ix.runIndexPass(ctx)
}

func (ix *Indexer) runIndexPass(ctx context.Context) error {
	runID := uuid.NewString()
	start := time.Now()
	defer ix.diag.Timing("index pass "+runID, start)

	prefixes := ix.cfg.NormalizedPackages()

	var candidates []scanner.Candidate
	if ix.cfg.MavenRepo != "" {
		candidates = append(candidates, scanner.ScanMaven(ix.cfg.MavenRepo, prefixes)...)
	}
	if ix.cfg.GradleRepo != "" {
		candidates = append(candidates, scanner.ScanGradle(ix.cfg.GradleRepo, prefixes)...)
	}
	if !ix.cfg.HasAnyRoot() {
		ix.diag.Errorf("[%s] configuration error: no maven or gradle root configured", runID)
		return nil
	}

	if err := ix.upsertCandidates(ctx, candidates); err != nil {
		ix.diag.Errorf("[%s] scanner/store failure, aborting this run: %v", runID, err)
		return err
	}

	if err := ix.runHierarchyMigrationCheck(ctx, runID); err != nil {
		ix.diag.Errorf("[%s] hierarchy migration check failed: %v", runID, err)
		return err
	}

	unindexed, err := ix.store.FindUnindexed(ctx)
	if err != nil {
		ix.diag.Errorf("[%s] scanner/store failure, aborting this run: %v", runID, err)
		return err
	}

	ix.diag.Infof("[%s] indexing %d artifact(s)", runID, len(unindexed))
	for offset := 0; offset < len(unindexed); offset += chunkSize {
		end := min(offset+chunkSize, len(unindexed))
		ix.ingestChunk(ctx, unindexed[offset:end], prefixes, runID)
	}
	return nil
}

func (ix *Indexer) upsertCandidates(ctx context.Context, candidates []scanner.Candidate) error {
	return ix.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, c := range candidates {
			if _, err := ix.store.UpsertArtifact(ctx, tx, c.ToArtifact()); err != nil {
				return err
			}
		}
		return nil
	})
}

// runHierarchyMigrationCheck implements the one-time consistency check:
// if the inheritance table is empty but some artifacts are already
// marked indexed, hierarchy capture was introduced after those
// artifacts were last ingested. Reset them so they are re-ingested with
// edges this time; otherwise hierarchy-aware queries would silently
// return nothing for data indexed before this capability existed.
func (ix *Indexer) runHierarchyMigrationCheck(ctx context.Context, runID string) error {
	edgeCount, err := ix.store.InheritanceEdgeCount(ctx)
	if err != nil {
		return err
	}
	if edgeCount > 0 {
		return nil
	}
	hasIndexed, err := ix.store.HasAnyIndexed(ctx)
	if err != nil {
		return err
	}
	if !hasIndexed {
		return nil
	}
	ix.diag.Infof("[%s] no inheritance edges but artifacts already indexed, resetting for hierarchy capture", runID)
	return ix.store.ResetForHierarchyMigration(ctx)
}

// ingestChunk processes one chunk of up to chunkSize artifacts with a
// worker pool bounded by the chunk's own size and the host's CPU count,
// so indexing never oversubscribes a small chunk. Each artifact ingests
// inside its own transaction; a failure aborts only that artifact.
func (ix *Indexer) ingestChunk(ctx context.Context, chunk []store.Artifact, prefixes []string, runID string) {
	workers := min(runtime.NumCPU(), len(chunk))
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan store.Artifact)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				if err := ix.ingestArtifact(ctx, a, prefixes); err != nil {
					ix.diag.Errorf("[%s] ingest %s: %v", runID, a.Coordinate(), err)
				}
			}
		}()
	}
	for _, a := range chunk {
		jobs <- a
	}
	close(jobs)
	wg.Wait()
}
