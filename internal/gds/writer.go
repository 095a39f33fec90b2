package gds

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/pkg/geometry"
)

type writer struct {
	w   *bufio.Writer
	err error
}

func (wr *writer) record(rtype uint16, data []byte) {
	if wr.err != nil {
		return
	}
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[0:2], uint16(4+len(data)))
	binary.BigEndian.PutUint16(hdr[2:4], rtype)
	if _, err := wr.w.Write(hdr[:]); err != nil {
		wr.err = err
		return
	}
	if _, err := wr.w.Write(data); err != nil {
		wr.err = err
	}
}

func (wr *writer) int16s(rtype uint16, vals ...int16) {
	data := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(data[2*i:], uint16(v))
	}
	wr.record(rtype, data)
}

func (wr *writer) int32s(rtype uint16, vals ...int32) {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(data[4*i:], uint32(v))
	}
	wr.record(rtype, data)
}

// str writes an ASCII record, NUL-padded to even length.
func (wr *writer) str(rtype uint16, s string) {
	data := []byte(s)
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	wr.record(rtype, data)
}

func (wr *writer) real8s(rtype uint16, vals ...float64) {
	data := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint64(data[8*i:], encodeReal8(v))
	}
	wr.record(rtype, data)
}

func checkCoord(v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.Errorf("coordinate %d overflows the 32-bit GDS range", v)
	}
	return int32(v), nil
}

func rectRing(r geometry.Rect) ([]int32, error) {
	x1, err := checkCoord(r.X1)
	if err != nil {
		return nil, err
	}
	y1, err := checkCoord(r.Y1)
	if err != nil {
		return nil, err
	}
	x2, err := checkCoord(r.X2)
	if err != nil {
		return nil, err
	}
	y2, err := checkCoord(r.Y2)
	if err != nil {
		return nil, err
	}
	// Closed 5-point ring, counterclockwise from the lower left.
	return []int32{x1, y1, x2, y1, x2, y2, x1, y2, x1, y1}, nil
}

// Write streams the cell as a single-structure GDSII library. The
// library and structure share the cell name.
func Write(w io.Writer, c *cell.Cell) error {
	wr := &writer{w: bufio.NewWriter(w)}

	wr.int16s(recHeader, gdsVersion)
	// Zeroed modification and access timestamps keep output
	// byte-stable across runs.
	wr.int16s(recBgnLib, make([]int16, 12)...)
	wr.str(recLibName, c.Name)
	wr.real8s(recUnits, c.DBU, c.DBU*1e-6)

	wr.int16s(recBgnStr, make([]int16, 12)...)
	wr.str(recStrName, c.Name)

	for _, layer := range c.Layers() {
		for _, r := range c.Shapes(layer) {
			ring, err := rectRing(r)
			if err != nil {
				return errors.Wrapf(err, "cell %s layer %s", c.Name, layer)
			}
			wr.record(recBoundary, nil)
			wr.int16s(recLayer, int16(layer.Number))
			wr.int16s(recDatatype, int16(layer.Datatype))
			wr.int32s(recXY, ring...)
			wr.record(recEndEl, nil)
		}
	}

	for _, lbl := range c.Labels() {
		x, err := checkCoord(lbl.At.X)
		if err != nil {
			return errors.Wrapf(err, "label %q", lbl.Text)
		}
		y, err := checkCoord(lbl.At.Y)
		if err != nil {
			return errors.Wrapf(err, "label %q", lbl.Text)
		}
		wr.record(recText, nil)
		wr.int16s(recLayer, int16(lbl.Layer.Number))
		wr.int16s(recTextType, int16(lbl.Layer.Datatype))
		wr.int16s(recPresentation, 0x0005) // center/center
		wr.int32s(recXY, x, y)
		wr.str(recString, lbl.Text)
		wr.record(recEndEl, nil)
	}

	wr.record(recEndStr, nil)
	wr.record(recEndLib, nil)

	if wr.err != nil {
		return errors.Wrapf(wr.err, "write cell %s", c.Name)
	}
	return errors.Wrapf(wr.w.Flush(), "write cell %s", c.Name)
}

// WriteFile writes the cell to a GDS file.
func WriteFile(path string, c *cell.Cell) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create gds file")
	}
	if err := Write(f, c); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close gds file")
}
