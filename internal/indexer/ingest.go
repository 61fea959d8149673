package indexer

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/javadex/internal/archive"
	"github.com/jward/javadex/internal/classfile"
	"github.com/jward/javadex/internal/config"
	"github.com/jward/javadex/internal/protoreader"
	"github.com/jward/javadex/internal/store"
)

// MainArchivePath returns the path of an artifact's main compiled
// archive: the artifact's own abspath for a Gradle layout (already a
// .jar), or "<artifactId>-<version>.jar" inside the leaf directory for a
// Maven layout. The second return is false if no such file exists
// (a pom-only Maven artifact).
func MainArchivePath(a store.Artifact) (string, bool) {
	if strings.HasSuffix(a.AbsPath, ".jar") {
		return a.AbsPath, true
	}
	candidate := filepath.Join(a.AbsPath, a.ArtifactID+"-"+a.Version+".jar")
	if _, err := os.Stat(candidate); err != nil {
		return "", false
	}
	return candidate, true
}

// ArtifactDir returns the directory holding an artifact's files: the
// hash directory for a Gradle layout (abspath is already the jar), or
// the leaf directory itself for a Maven layout.
func ArtifactDir(a store.Artifact) string {
	if strings.HasSuffix(a.AbsPath, ".jar") {
		return filepath.Dir(a.AbsPath)
	}
	return a.AbsPath
}

// SourceArchivePath returns the path of an artifact's sibling
// "-sources.jar", alongside the main archive directory/hash dir.
func SourceArchivePath(a store.Artifact) string {
	return filepath.Join(ArtifactDir(a), a.ArtifactID+"-"+a.Version+"-sources.jar")
}

// ingestArtifact opens an artifact's main archive and writes every
// class, inheritance edge, and resource it contains inside one
// transaction that also flips is_indexed=true. Archive-open failures,
// individual class-parse failures, and individual entry-read failures
// are swallowed -- the artifact is still marked indexed so the pipeline
// makes progress and this artifact is not retried forever.
func (ix *Indexer) ingestArtifact(ctx context.Context, a store.Artifact, prefixes []string) error {
	return ix.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		mainJar, ok := MainArchivePath(a)
		if !ok {
			// pom-only artifact: nothing to ingest, but it must not be
			// retried endlessly.
			return ix.store.MarkIndexed(ctx, tx, a.ID)
		}

		r, err := archive.Open(mainJar)
		if err != nil {
			ix.diag.Errorf("archive unreadable for %s: %v", a.Coordinate(), err)
			return ix.store.MarkIndexed(ctx, tx, a.ID)
		}
		defer r.Close()

		for _, name := range r.Entries() {
			switch {
			case strings.HasSuffix(name, ".class"):
				ix.ingestClassEntry(ctx, tx, a, r, name, prefixes)
			case strings.HasSuffix(name, ".proto"):
				ix.ingestProtoEntry(ctx, tx, a, r, name)
			}
		}

		return ix.store.MarkIndexed(ctx, tx, a.ID)
	})
}

func (ix *Indexer) ingestClassEntry(ctx context.Context, tx *sql.Tx, a store.Artifact, r *archive.Reader, name string, prefixes []string) {
	if strings.Contains(fqNameFromEntry(name), "$") {
		return // nested classes ('$' in the entry name) are skipped before parsing
	}

	data, err := r.ReadEntry(name)
	if err != nil {
		ix.diag.Errorf("read class entry %s in %s: %v", name, a.Coordinate(), err)
		return
	}

	result, err := classfile.Parse(data)
	if err != nil {
		ix.diag.Errorf("malformed class %s in %s: %v", name, a.Coordinate(), err)
		return
	}

	if !config.MatchesPrefix(result.ClassName, prefixes) {
		return
	}

	if _, err := ix.store.InsertClass(ctx, tx, store.ClassEntry{
		ArtifactID: a.ID,
		FQName:     result.ClassName,
		SimpleName: simpleName(result.ClassName),
	}); err != nil {
		ix.diag.Errorf("insert class %s: %v", result.ClassName, err)
		return
	}

	if result.SuperClass != "" {
		if err := ix.store.InsertEdge(ctx, tx, store.InheritanceEdge{
			ArtifactID: a.ID,
			ClassName:  result.ClassName,
			ParentName: result.SuperClass,
			Kind:       store.KindExtends,
		}); err != nil {
			ix.diag.Errorf("insert extends edge %s -> %s: %v", result.ClassName, result.SuperClass, err)
		}
	}
	for _, iface := range result.InterfaceNames {
		if err := ix.store.InsertEdge(ctx, tx, store.InheritanceEdge{
			ArtifactID: a.ID,
			ClassName:  result.ClassName,
			ParentName: iface,
			Kind:       store.KindImplements,
		}); err != nil {
			ix.diag.Errorf("insert implements edge %s -> %s: %v", result.ClassName, iface, err)
		}
	}
}

func (ix *Indexer) ingestProtoEntry(ctx context.Context, tx *sql.Tx, a store.Artifact, r *archive.Reader, name string) {
	data, err := r.ReadEntry(name)
	if err != nil {
		ix.diag.Errorf("read proto entry %s in %s: %v", name, a.Coordinate(), err)
		return
	}

	result := protoreader.Parse(data)
	baseName := strings.TrimSuffix(filepath.Base(name), ".proto")
	classNames := result.DerivedClassNames(baseName)

	resourceID, err := ix.store.InsertResource(ctx, tx, store.Resource{
		ArtifactID: a.ID,
		Path:       name,
		Content:    string(data),
		Type:       store.ResourceProto,
	})
	if err != nil {
		ix.diag.Errorf("insert resource %s: %v", name, err)
		return
	}
	for _, cn := range classNames {
		if err := ix.store.LinkResourceClass(ctx, tx, resourceID, cn); err != nil {
			ix.diag.Errorf("link resource class %s: %v", cn, err)
		}
	}
}

func fqNameFromEntry(entryName string) string {
	trimmed := strings.TrimSuffix(entryName, ".class")
	return strings.ReplaceAll(trimmed, "/", ".")
}

func simpleName(fqName string) string {
	if i := strings.LastIndex(fqName, "."); i >= 0 {
		return fqName[i+1:]
	}
	return fqName
}
