// Package classfile decodes a compiled JVM class file into its name,
// superclass, and interface list. Parse is a pure function over bytes:
// it has no knowledge of artifacts, archives, or the store.
package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is returned for a bad magic number or an unrecognized
// constant pool tag.
var ErrMalformed = errors.New("malformed class file")

const magic = 0xCAFEBABE

// constant pool tags, JVM Spec table 4.4.
const (
	tagUTF8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Result is the decoded shape of one class file.
type Result struct {
	ClassName      string   // dotted FQ name, e.g. "com.test.Demo"
	SuperClass     string   // dotted FQ name, "" if absent (superClassIndex == 0)
	InterfaceNames []string // dotted FQ names
}

// poolEntry holds just enough of a constant pool slot to resolve Class
// entries to their UTF-8 name afterward: a Class entry's payload is a
// name_index, and a Utf8 entry's payload is the string itself.
type poolEntry struct {
	tag     uint8
	nameRef uint16 // valid for tagClass
	utf8    string // valid for tagUTF8
}

// Parse decodes data as a JVM class file. It never fails for "no super"
// (superClassIndex == 0 yields Result.SuperClass == ""). Nested classes
// (names containing '$') are parsed successfully; callers that need to
// exclude them must filter the result themselves.
func Parse(data []byte) (Result, error) {
	r := bytes.NewReader(data)

	var gotMagic uint32
	if err := binary.Read(r, binary.BigEndian, &gotMagic); err != nil {
		return Result{}, fmt.Errorf("%w: read magic: %v", ErrMalformed, err)
	}
	if gotMagic != magic {
		return Result{}, fmt.Errorf("%w: bad magic %#x", ErrMalformed, gotMagic)
	}

	// minor + major version
	if _, err := skip(r, 4); err != nil {
		return Result{}, fmt.Errorf("%w: skip version: %v", ErrMalformed, err)
	}

	var poolCount uint16
	if err := binary.Read(r, binary.BigEndian, &poolCount); err != nil {
		return Result{}, fmt.Errorf("%w: read constant pool count: %v", ErrMalformed, err)
	}

	pool := make([]poolEntry, poolCount) // 1-indexed; pool[0] unused
	for i := 1; i < int(poolCount); i++ {
		var tag uint8
		if err := binary.Read(r, binary.BigEndian, &tag); err != nil {
			return Result{}, fmt.Errorf("%w: read tag at %d: %v", ErrMalformed, i, err)
		}
		entry := poolEntry{tag: tag}
		switch tag {
		case tagUTF8:
			var length uint16
			if err := binary.Read(r, binary.BigEndian, &length); err != nil {
				return Result{}, fmt.Errorf("%w: read utf8 length: %v", ErrMalformed, err)
			}
			buf := make([]byte, length)
			if _, err := readFull(r, buf); err != nil {
				return Result{}, fmt.Errorf("%w: read utf8 bytes: %v", ErrMalformed, err)
			}
			entry.utf8 = string(buf)
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			var ref uint16
			if err := binary.Read(r, binary.BigEndian, &ref); err != nil {
				return Result{}, fmt.Errorf("%w: read ref: %v", ErrMalformed, err)
			}
			entry.nameRef = ref
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			if _, err := skip(r, 4); err != nil {
				return Result{}, fmt.Errorf("%w: skip 4-byte entry: %v", ErrMalformed, err)
			}
		case tagInteger, tagFloat:
			if _, err := skip(r, 4); err != nil {
				return Result{}, fmt.Errorf("%w: skip 4-byte entry: %v", ErrMalformed, err)
			}
		case tagLong, tagDouble:
			if _, err := skip(r, 8); err != nil {
				return Result{}, fmt.Errorf("%w: skip 8-byte entry: %v", ErrMalformed, err)
			}
			pool[i] = entry
			i++ // occupies two logical indices
			continue
		case tagMethodHandle:
			if _, err := skip(r, 3); err != nil {
				return Result{}, fmt.Errorf("%w: skip method handle: %v", ErrMalformed, err)
			}
		default:
			return Result{}, fmt.Errorf("%w: unrecognized tag %d at index %d", ErrMalformed, tag, i)
		}
		pool[i] = entry
	}

	// access flags
	if _, err := skip(r, 2); err != nil {
		return Result{}, fmt.Errorf("%w: skip access flags: %v", ErrMalformed, err)
	}

	var thisClass, superClass uint16
	if err := binary.Read(r, binary.BigEndian, &thisClass); err != nil {
		return Result{}, fmt.Errorf("%w: read this_class: %v", ErrMalformed, err)
	}
	if err := binary.Read(r, binary.BigEndian, &superClass); err != nil {
		return Result{}, fmt.Errorf("%w: read super_class: %v", ErrMalformed, err)
	}

	var interfaceCount uint16
	if err := binary.Read(r, binary.BigEndian, &interfaceCount); err != nil {
		return Result{}, fmt.Errorf("%w: read interfaces_count: %v", ErrMalformed, err)
	}
	interfaceIdx := make([]uint16, interfaceCount)
	for i := range interfaceIdx {
		if err := binary.Read(r, binary.BigEndian, &interfaceIdx[i]); err != nil {
			return Result{}, fmt.Errorf("%w: read interface index: %v", ErrMalformed, err)
		}
	}

	className, err := resolveClassName(pool, thisClass)
	if err != nil {
		return Result{}, fmt.Errorf("%w: resolve this_class: %v", ErrMalformed, err)
	}

	result := Result{ClassName: className}

	if superClass != 0 {
		name, err := resolveClassName(pool, superClass)
		if err != nil {
			return Result{}, fmt.Errorf("%w: resolve super_class: %v", ErrMalformed, err)
		}
		result.SuperClass = name
	}

	for _, idx := range interfaceIdx {
		name, err := resolveClassName(pool, idx)
		if err != nil {
			return Result{}, fmt.Errorf("%w: resolve interface: %v", ErrMalformed, err)
		}
		result.InterfaceNames = append(result.InterfaceNames, name)
	}

	return result, nil
}

// resolveClassName follows a Class constant's name_index to its UTF-8
// entry and converts the internal form ("com/test/Demo") to dotted.
func resolveClassName(pool []poolEntry, classIndex uint16) (string, error) {
	if int(classIndex) >= len(pool) || pool[classIndex].tag != tagClass {
		return "", fmt.Errorf("index %d is not a Class entry", classIndex)
	}
	nameIdx := pool[classIndex].nameRef
	if int(nameIdx) >= len(pool) || pool[nameIdx].tag != tagUTF8 {
		return "", fmt.Errorf("index %d is not a Utf8 entry", nameIdx)
	}
	return internalToDotted(pool[nameIdx].utf8), nil
}

func internalToDotted(internal string) string {
	out := make([]byte, len(internal))
	for i := 0; i < len(internal); i++ {
		if internal[i] == '/' {
			out[i] = '.'
		} else {
			out[i] = internal[i]
		}
	}
	return string(out)
}

func skip(r *bytes.Reader, n int64) (int64, error) {
	return r.Seek(n, 1)
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	return io.ReadFull(r, buf)
}
