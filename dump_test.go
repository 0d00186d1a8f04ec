package wbxml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpSimpleString(t *testing.T) {
	wire := mustEncode(t, simpleName{Name: "hi"})

	var out bytes.Buffer
	assert.NoError(t, Dump(&out, bytes.NewReader(wire)))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "version=0x3 publicid=1 charset=106 strtbl=0\n"))
	assert.Contains(t, got, "TAG page=1 id=0x5 content=true")
	assert.Contains(t, got, `STR "hi"`)
}

func TestDumpNestedRecord(t *testing.T) {
	wire := mustEncode(t, outer{Inner: &inner{X: "v"}})

	var out bytes.Buffer
	assert.NoError(t, Dump(&out, bytes.NewReader(wire)))

	got := out.String()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	// prologue, outer TAG, inner TAG (indented), STR (indented further).
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], "TAG page=1 id=0x5 content=true")
	assert.True(t, strings.HasPrefix(lines[2], "  TAG page=1 id=0x6 content=true"))
	assert.True(t, strings.HasPrefix(lines[3], "    STR \"v\""))
}

func TestDumpEmptyDocument(t *testing.T) {
	wire := mustEncode(t, simpleName{Name: ""})
	var out bytes.Buffer
	assert.NoError(t, Dump(&out, bytes.NewReader(wire)))
	assert.Contains(t, out.String(), "TAG page=1 id=0x5 content=true")
}
