package gds

import (
	"bufio"
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

func TestReal8RoundTrip(t *testing.T) {
	for _, v := range []float64{0.001, 1e-9, 1.0, 2.5, -0.125, 1e-6} {
		got := decodeReal8(encodeReal8(v))
		assert.InEpsilon(t, v, got, 1e-12, "value %g", v)
	}
	// Zero has no relative error; real8 encodes it exactly.
	assert.Equal(t, 0.0, decodeReal8(encodeReal8(0)))
}

func TestReal8KnownEncoding(t *testing.T) {
	// 1.0 = 0x4110000000000000 in excess-64 base-16.
	assert.Equal(t, uint64(0x4110000000000000), encodeReal8(1.0))
}

func testCell() *cell.Cell {
	c := cell.New("r2r_dac_8bit")
	c.InsertUM(tech.GatPoly, 0.0, 0.0, 4.08, 2.0)
	c.InsertUM(tech.Metal1, 0.03, 0.88, 0.27, 1.12)
	c.InsertUM(tech.Metal2, 0.0, 3.8, 5.0, 4.2)
	c.SetBoundary(geometry.RectUM(0, 0, 45, 60))
	c.AddPin(tech.Metal2Pin, tech.Metal2Label, geometry.RectUM(0, 3.5, 0.5, 4.5), "d[0]")
	return c
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := testCell()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, c))

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.DBU, got.DBU)
	assert.Equal(t, c.Layers(), got.Layers())
	for _, l := range c.Layers() {
		assert.Equal(t, c.Shapes(l), got.Shapes(l), "layer %s", l)
	}
	assert.Equal(t, c.Labels(), got.Labels())
}

func TestWriteIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Write(&a, testCell()))
	require.NoError(t, Write(&b, testCell()))
	assert.Equal(t, a.Bytes(), b.Bytes())

	// A write of the parsed cell reproduces the stream byte for byte.
	got, err := Read(bytes.NewReader(a.Bytes()))
	require.NoError(t, err)
	var c bytes.Buffer
	require.NoError(t, Write(&c, got))
	assert.Equal(t, a.Bytes(), c.Bytes())
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testCell()))

	_, err := Read(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte{0x00, 0x01, 0x02}))
	assert.Error(t, err)
}

func TestReadSkipsUnknownRecords(t *testing.T) {
	// A PATH element between the structure header and a boundary; the
	// reader does not model paths and must skip the records unharmed.
	var buf bytes.Buffer
	wr := &writer{w: bufio.NewWriter(&buf)}
	wr.int16s(recHeader, gdsVersion)
	wr.int16s(recBgnLib, make([]int16, 12)...)
	wr.str(recLibName, "lib")
	wr.real8s(recUnits, 0.001, 1e-9)
	wr.int16s(recBgnStr, make([]int16, 12)...)
	wr.str(recStrName, "lib")
	wr.record(0x0900, nil) // PATH
	wr.int16s(recLayer, 8)
	wr.int16s(recDatatype, 0)
	wr.int32s(recXY, 0, 0, 1000, 0)
	wr.record(recEndEl, nil)
	wr.record(recBoundary, nil)
	wr.int16s(recLayer, 8)
	wr.int16s(recDatatype, 0)
	wr.int32s(recXY, 0, 0, 1000, 0, 1000, 1000, 0, 1000, 0, 0)
	wr.record(recEndEl, nil)
	wr.record(recEndStr, nil)
	wr.record(recEndLib, nil)
	require.NoError(t, wr.w.Flush())

	c, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, c.Shapes(tech.Metal1), 1)
	assert.Equal(t, geometry.NewRect(0, 0, 1000, 1000), c.Shapes(tech.Metal1)[0])
}

func TestWriteCoordinateOverflow(t *testing.T) {
	c := cell.New("big")
	c.Insert(tech.Metal1, geometry.NewRect(0, 0, math.MaxInt32+1, 10))
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, c))
}

func TestWriteFileAndReadFile(t *testing.T) {
	path := t.TempDir() + "/out.gds"
	require.NoError(t, WriteFile(path, testCell()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "r2r_dac_8bit", got.Name)
	assert.Equal(t, geometry.NewRect(0, 0, 45000, 60000), got.Bounds())
}
