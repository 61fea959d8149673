package javadex

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jward/javadex/internal/archive"
	"github.com/jward/javadex/internal/indexer"
	"github.com/jward/javadex/internal/store"
)

// DetailKind selects which facet of a class GetClassDetail returns.
type DetailKind string

const (
	DetailSignatures DetailKind = "signatures"
	DetailDocs       DetailKind = "docs"
	DetailSource     DetailKind = "source"
)

// Detail is the combined response for one class: its public API
// signatures, and (for docs/source requests) the accompanying Javadoc
// and the source language it was recovered from.
type Detail struct {
	Signatures        []string
	Doc               string
	Language          string
	UsedDecompilation bool
}

// DetailExtractor resolves per-class detail from an artifact's archives,
// falling back to an external decompiler when no source is available.
// It is read-only with respect to Store; it touches the filesystem
// directly, independent of the indexing pipeline.
type DetailExtractor struct {
	decompilerPath string
	javapTool      string
}

// NewDetailExtractor wires the external-tool paths DetailExtractor may
// shell out to. Either may be empty; an empty javapTool skips straight
// to the decompiler for signatures, an empty decompilerPath makes a
// decompiler-fallback miss return ErrDecompilerUnavailable.
func NewDetailExtractor(decompilerPath, javapTool string) *DetailExtractor {
	return &DetailExtractor{decompilerPath: decompilerPath, javapTool: javapTool}
}

// GetClassDetail resolves (artifact, className, kind) via the
// three-step chain: signatures from bytecode, docs/source from the
// sibling source archive, decompiler fallback. It returns ErrNotFound
// when the artifact has no main archive, and ErrDecompilerUnavailable
// when the decompiler fallback is reached but is unconfigured or fails.
// It does not check that the main archive contains className.
func (d *DetailExtractor) GetClassDetail(ctx context.Context, a store.Artifact, className string, kind DetailKind) (*Detail, error) {
	if kind == DetailSignatures {
		return d.signaturesDetail(ctx, a, className)
	}
	return d.docsOrSourceDetail(ctx, a, className)
}

func (d *DetailExtractor) signaturesDetail(ctx context.Context, a store.Artifact, className string) (*Detail, error) {
	mainJar, ok := indexer.MainArchivePath(a)
	if !ok {
		return nil, fmt.Errorf("%w: no main archive for %s", ErrNotFound, a.Coordinate())
	}

	if d.javapTool != "" {
		out, err := runTool(ctx, d.javapTool, "-p", "-classpath", mainJar, className)
		if err == nil {
			return &Detail{Signatures: extractSignatures(out)}, nil
		}
	}

	return d.decompileSignatures(ctx, mainJar, className)
}

func (d *DetailExtractor) docsOrSourceDetail(ctx context.Context, a store.Artifact, className string) (*Detail, error) {
	if a.HasSource {
		detail, ok, err := d.fromSourceArchive(a, className)
		if err != nil {
			return nil, err
		}
		if ok {
			return detail, nil
		}
	}

	mainJar, ok := indexer.MainArchivePath(a)
	if !ok {
		return nil, fmt.Errorf("%w: no main archive for %s", ErrNotFound, a.Coordinate())
	}
	return d.decompileSource(ctx, mainJar, className)
}

// fromSourceArchive looks for <className>.java or <className>.kt
// (package-as-directory form) in the artifact's sibling sources jar.
// The bool return is false when the sources jar cannot be opened or
// holds no readable entry of either name, meaning "fall through to
// decompiler"; the error return is always nil.
func (d *DetailExtractor) fromSourceArchive(a store.Artifact, className string) (*Detail, bool, error) {
	sourcesPath := indexer.SourceArchivePath(a)
	r, err := archive.Open(sourcesPath)
	if err != nil {
		return nil, false, nil
	}
	defer r.Close()

	asPath := strings.ReplaceAll(className, ".", "/")
	for _, candidate := range []struct {
		entry string
		lang  string
	}{
		{asPath + ".java", "java"},
		{asPath + ".kt", "kotlin"},
	} {
		data, err := r.ReadEntry(candidate.entry)
		if err != nil {
			continue
		}
		simple := simpleNameOf(className)
		signatures, doc := parseJavaLikeSource(string(data), simple)
		return &Detail{Signatures: signatures, Doc: doc, Language: candidate.lang}, true, nil
	}
	return nil, false, nil
}

func (d *DetailExtractor) decompileSignatures(ctx context.Context, mainJar, className string) (*Detail, error) {
	src, err := d.decompile(ctx, mainJar, className)
	if err != nil {
		return nil, err
	}
	signatures, _ := parseJavaLikeSource(src, simpleNameOf(className))
	return &Detail{Signatures: signatures, UsedDecompilation: true}, nil
}

func (d *DetailExtractor) decompileSource(ctx context.Context, mainJar, className string) (*Detail, error) {
	src, err := d.decompile(ctx, mainJar, className)
	if err != nil {
		return nil, err
	}
	signatures, doc := parseJavaLikeSource(src, simpleNameOf(className))
	return &Detail{Signatures: signatures, Doc: doc, Language: "java", UsedDecompilation: true}, nil
}

func (d *DetailExtractor) decompile(ctx context.Context, mainJar, className string) (string, error) {
	if d.decompilerPath == "" {
		return "", fmt.Errorf("%w: no decompiler configured", ErrDecompilerUnavailable)
	}
	out, err := runTool(ctx, d.decompilerPath, mainJar, className)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecompilerUnavailable, err)
	}
	return out, nil
}

func runTool(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", name, err)
	}
	return string(out), nil
}

func simpleNameOf(fqName string) string {
	if i := strings.LastIndex(fqName, "."); i >= 0 {
		return fqName[i+1:]
	}
	return fqName
}
