package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classBuilder assembles a minimal but valid class file byte sequence
// for testing. Parse never reads past the interfaces list, so fields,
// methods, and attributes are omitted entirely.
type classBuilder struct {
	pool  [][]byte // logical entries, pool[0] is a placeholder for index 0
	index map[string]uint16
}

func newClassBuilder() *classBuilder {
	return &classBuilder{pool: [][]byte{nil}, index: map[string]uint16{}}
}

func (b *classBuilder) utf8(s string) uint16 {
	if idx, ok := b.index["utf8:"+s]; ok {
		return idx
	}
	entry := make([]byte, 0, 3+len(s))
	entry = append(entry, tagUTF8)
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(len(s)))
	entry = append(entry, lenBuf...)
	entry = append(entry, []byte(s)...)
	b.pool = append(b.pool, entry)
	idx := uint16(len(b.pool) - 1)
	b.index["utf8:"+s] = idx
	return idx
}

func (b *classBuilder) class(internalName string) uint16 {
	if idx, ok := b.index["class:"+internalName]; ok {
		return idx
	}
	nameIdx := b.utf8(internalName)
	entry := []byte{tagClass, 0, 0}
	binary.BigEndian.PutUint16(entry[1:], nameIdx)
	b.pool = append(b.pool, entry)
	idx := uint16(len(b.pool) - 1)
	b.index["class:"+internalName] = idx
	return idx
}

func (b *classBuilder) build(thisClass, superClass uint16, interfaces []uint16) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(magic))
	binary.Write(&buf, binary.BigEndian, uint16(0)) // minor
	binary.Write(&buf, binary.BigEndian, uint16(61)) // major
	binary.Write(&buf, binary.BigEndian, uint16(len(b.pool)))
	for i := 1; i < len(b.pool); i++ {
		buf.Write(b.pool[i])
	}
	binary.Write(&buf, binary.BigEndian, uint16(0x0021)) // access flags: ACC_PUBLIC|ACC_SUPER
	binary.Write(&buf, binary.BigEndian, thisClass)
	binary.Write(&buf, binary.BigEndian, superClass)
	binary.Write(&buf, binary.BigEndian, uint16(len(interfaces)))
	for _, iface := range interfaces {
		binary.Write(&buf, binary.BigEndian, iface)
	}
	return buf.Bytes()
}

func TestParseRoundTripsClassName(t *testing.T) {
	t.Parallel()
	b := newClassBuilder()
	this := b.class("com/test/demo/TestUtils")
	super := b.class("java/lang/Object")

	result, err := Parse(b.build(this, super, nil))
	require.NoError(t, err)
	assert.Equal(t, "com.test.demo.TestUtils", result.ClassName)
	assert.Equal(t, "java.lang.Object", result.SuperClass)
	assert.Empty(t, result.InterfaceNames)
}

func TestParseInterfaces(t *testing.T) {
	t.Parallel()
	b := newClassBuilder()
	this := b.class("com/test/Impl")
	super := b.class("java/lang/Object")
	iface1 := b.class("com/test/Foo")
	iface2 := b.class("com/test/Bar")

	result, err := Parse(b.build(this, super, []uint16{iface1, iface2}))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"com.test.Foo", "com.test.Bar"}, result.InterfaceNames)
}

func TestParseNoSuperclass(t *testing.T) {
	t.Parallel()
	b := newClassBuilder()
	this := b.class("java/lang/Object")

	result, err := Parse(b.build(this, 0, nil))
	require.NoError(t, err)
	assert.Equal(t, "java.lang.Object", result.ClassName)
	assert.Empty(t, result.SuperClass)
}

func TestParseNestedClassNameIsNotFiltered(t *testing.T) {
	t.Parallel()
	b := newClassBuilder()
	this := b.class("com/test/Outer$Inner")
	super := b.class("java/lang/Object")

	result, err := Parse(b.build(this, super, nil))
	require.NoError(t, err)
	assert.Equal(t, "com.test.Outer$Inner", result.ClassName)
}

func TestParseBadMagic(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte{0, 0, 0, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseUnrecognizedTag(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(magic))
	binary.Write(&buf, binary.BigEndian, uint16(0))
	binary.Write(&buf, binary.BigEndian, uint16(61))
	binary.Write(&buf, binary.BigEndian, uint16(2)) // one entry
	buf.WriteByte(99)                                // unrecognized tag

	_, err := Parse(buf.Bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseLongDoubleOccupyTwoSlots(t *testing.T) {
	t.Parallel()
	b := newClassBuilder()
	// A Long entry between two Class-bearing entries must not shift
	// resolution of the entries that follow it.
	longEntry := append([]byte{tagLong}, make([]byte, 8)...)
	b.pool = append(b.pool, longEntry)
	b.pool = append(b.pool, nil) // second logical slot occupied by the Long

	this := b.class("com/test/WithLong")
	super := b.class("java/lang/Object")

	result, err := Parse(b.build(this, super, nil))
	require.NoError(t, err)
	assert.Equal(t, "com.test.WithLong", result.ClassName)
	assert.Equal(t, "java.lang.Object", result.SuperClass)
}
