package javadex

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/javadex/internal/store"
)

func writeTestZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

const sampleJavaSource = `package com.test.demo;

/**
 * Utility helpers for tests.
 */
public class TestUtils {
    public static String helper(String input) {
        return input;
    }

    private void internalOnly() {
    }

    protected int size() throws IllegalStateException {
        return 0;
    }
}
`

func TestParseJavaLikeSourceExtractsDocAndPublicProtectedSignatures(t *testing.T) {
	t.Parallel()
	signatures, doc := parseJavaLikeSource(sampleJavaSource, "TestUtils")

	assert.Equal(t, "Utility helpers for tests.", doc)
	assert.Contains(t, signatures, "public static String helper(String input)")
	assert.Contains(t, signatures, "protected int size() throws IllegalStateException")
	for _, sig := range signatures {
		assert.NotContains(t, sig, "internalOnly")
	}
}

func TestGetClassDetailDocsReadsFromSourceArchive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestZip(t, filepath.Join(dir, "demo-1.0.0-sources.jar"), map[string]string{
		"com/test/demo/TestUtils.java": sampleJavaSource,
	})

	a := store.Artifact{
		GroupID: "com.test", ArtifactID: "demo", Version: "1.0.0",
		AbsPath: dir, HasSource: true,
	}

	d := NewDetailExtractor("", "")
	detail, err := d.GetClassDetail(context.Background(), a, "com.test.demo.TestUtils", DetailDocs)
	require.NoError(t, err)
	assert.Equal(t, "java", detail.Language)
	assert.False(t, detail.UsedDecompilation)
	assert.Equal(t, "Utility helpers for tests.", detail.Doc)
	assert.Contains(t, detail.Signatures, "public static String helper(String input)")
}

func TestGetClassDetailFallsBackToDecompilerWhenSourceMissing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestZip(t, filepath.Join(dir, "demo-1.0.0.jar"), map[string]string{
		"com/test/demo/TestUtils.class": "not-a-real-classfile",
	})

	a := store.Artifact{
		GroupID: "com.test", ArtifactID: "demo", Version: "1.0.0",
		AbsPath: dir, HasSource: false,
	}

	d := NewDetailExtractor("", "")
	_, err := d.GetClassDetail(context.Background(), a, "com.test.demo.TestUtils", DetailDocs)
	assert.ErrorIs(t, err, ErrDecompilerUnavailable)
}

func TestGetClassDetailSourceFlagTrueButEntryMissingFallsBackToDecompiler(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestZip(t, filepath.Join(dir, "demo-1.0.0.jar"), map[string]string{
		"com/test/demo/TestUtils.class": "not-a-real-classfile",
	})
	writeTestZip(t, filepath.Join(dir, "demo-1.0.0-sources.jar"), map[string]string{
		"com/test/demo/Other.java": sampleJavaSource,
	})

	a := store.Artifact{
		GroupID: "com.test", ArtifactID: "demo", Version: "1.0.0",
		AbsPath: dir, HasSource: true,
	}

	d := NewDetailExtractor("", "")
	_, err := d.GetClassDetail(context.Background(), a, "com.test.demo.TestUtils", DetailDocs)
	assert.ErrorIs(t, err, ErrDecompilerUnavailable)
}

func TestExtractSignaturesFlatScanNoAnchoring(t *testing.T) {
	t.Parallel()
	javapOutput := `Compiled from "TestUtils.java"
public class com.test.demo.TestUtils {
  public static java.lang.String helper(java.lang.String);
  protected int size() throws java.lang.IllegalStateException;
}
`
	sigs := extractSignatures(javapOutput)
	assert.Contains(t, sigs, "public static java.lang.String helper(java.lang.String)")
	assert.Contains(t, sigs, "protected int size() throws java.lang.IllegalStateException")
}

func TestSimpleNameOf(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "TestUtils", simpleNameOf("com.test.demo.TestUtils"))
	assert.Equal(t, "TestUtils", simpleNameOf("TestUtils"))
}
