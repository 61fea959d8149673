package protoreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMultipleFiles(t *testing.T) {
	t.Parallel()
	src := []byte(`
		syntax = "proto3";
		package example.multi;

		// comment about the package
		option java_package = "com.example.multi";
		option java_outer_classname = "MultiProto";
		option java_multiple_files = true;

		message MultiMessage {
			string field = 1;
		}

		enum MultiEnum {
			UNKNOWN = 0;
		}
	`)

	res := Parse(src)
	assert.Equal(t, "example.multi", res.Package)
	assert.Equal(t, "com.example.multi", res.JavaPackage)
	assert.Equal(t, "MultiProto", res.JavaOuterClassname)
	assert.True(t, res.JavaMultipleFiles)
	assert.ElementsMatch(t, []string{"MultiMessage", "MultiEnum"}, res.Definitions)

	names := res.DerivedClassNames("multi")
	assert.ElementsMatch(t, []string{
		"com.example.multi.MultiProto",
		"com.example.multi.MultiMessage",
		"com.example.multi.MultiEnum",
	}, names)
}

func TestParseSingleFileNestsUnderOuterClass(t *testing.T) {
	t.Parallel()
	src := []byte(`
		package example.single;
		option java_package = "com.example.single";

		message Inner {
			message Nested {
				int32 x = 1;
			}
		}
	`)

	res := Parse(src)
	assert.False(t, res.JavaMultipleFiles)
	assert.Equal(t, []string{"Inner"}, res.Definitions) // Nested is excluded, depth > 0

	names := res.DerivedClassNames("widget")
	assert.ElementsMatch(t, []string{
		"com.example.single.Widget",
		"com.example.single.Widget.Inner",
	}, names)
}

func TestParseDefaultOuterClassnameFromFileBaseName(t *testing.T) {
	t.Parallel()
	res := Parse([]byte(`message Foo {}`))
	names := res.DerivedClassNames("multi_part_name")
	assert.Contains(t, names, "MultiPartName")
}

func TestParseStripsBlockComments(t *testing.T) {
	t.Parallel()
	src := []byte(`
		/* block comment
		   spanning lines */
		package com.test;
		message Real {}
	`)
	res := Parse(src)
	assert.Equal(t, "com.test", res.Package)
	assert.Equal(t, []string{"Real"}, res.Definitions)
}
