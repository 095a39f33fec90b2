package gds

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// ErrFormat reports a malformed or unsupported GDS stream.
var ErrFormat = errors.New("gds: malformed stream")

type record struct {
	rtype uint16
	data  []byte
}

func (r record) int16At(i int) int16 {
	return int16(binary.BigEndian.Uint16(r.data[2*i:]))
}

func (r record) str() string {
	return strings.TrimRight(string(r.data), "\x00")
}

type reader struct {
	r *bufio.Reader
}

func (rd *reader) next() (record, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(rd.r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return record{}, errors.Wrap(ErrFormat, "truncated record header")
		}
		return record{}, err
	}
	size := binary.BigEndian.Uint16(hdr[0:2])
	if size < 4 {
		return record{}, errors.Wrapf(ErrFormat, "record size %d", size)
	}
	rec := record{rtype: binary.BigEndian.Uint16(hdr[2:4])}
	if size > 4 {
		rec.data = make([]byte, size-4)
		if _, err := io.ReadFull(rd.r, rec.data); err != nil {
			return record{}, errors.Wrap(ErrFormat, "truncated record body")
		}
	}
	return rec, nil
}

func (rd *reader) expect(rtype uint16) (record, error) {
	rec, err := rd.next()
	if err != nil {
		return record{}, err
	}
	if rec.rtype != rtype {
		return record{}, errors.Wrapf(ErrFormat, "expected record %04x, got %04x", rtype, rec.rtype)
	}
	return rec, nil
}

// Read parses a single-structure GDSII library back into a cell.
func Read(r io.Reader) (*cell.Cell, error) {
	rd := &reader{r: bufio.NewReader(r)}

	if _, err := rd.expect(recHeader); err != nil {
		return nil, err
	}
	if _, err := rd.expect(recBgnLib); err != nil {
		return nil, err
	}
	rec, err := rd.expect(recLibName)
	if err != nil {
		return nil, err
	}
	c := cell.New(rec.str())

	units, err := rd.expect(recUnits)
	if err != nil {
		return nil, err
	}
	if len(units.data) != 16 {
		return nil, errors.Wrap(ErrFormat, "UNITS record size")
	}
	c.DBU = decodeReal8(binary.BigEndian.Uint64(units.data[0:8]))
	if c.DBU <= 0 {
		return nil, errors.Wrap(ErrFormat, "non-positive database unit")
	}

	if _, err := rd.expect(recBgnStr); err != nil {
		return nil, err
	}
	rec, err = rd.expect(recStrName)
	if err != nil {
		return nil, err
	}
	c.Name = rec.str()

	for {
		rec, err = rd.next()
		if err != nil {
			return nil, err
		}
		switch rec.rtype {
		case recBoundary:
			if err := readBoundary(rd, c); err != nil {
				return nil, err
			}
		case recText:
			if err := readText(rd, c); err != nil {
				return nil, err
			}
		case recEndStr:
			rec, err = rd.next()
			if err != nil {
				return nil, err
			}
			if rec.rtype == recBgnStr {
				return nil, errors.Wrap(ErrFormat, "multiple structures are not supported")
			}
			if rec.rtype != recEndLib {
				return nil, errors.Wrapf(ErrFormat, "expected ENDLIB, got %04x", rec.rtype)
			}
			return c, nil
		default:
			// Unknown records (PATH, SREF, NODE, properties) are
			// skipped; the header carries their length, so the stream
			// stays in sync.
		}
	}
}

// readBoundary consumes LAYER, DATATYPE, XY, ENDEL after a BOUNDARY
// record. Only closed 5-point rectangular rings are accepted.
func readBoundary(rd *reader, c *cell.Cell) error {
	layerRec, err := rd.expect(recLayer)
	if err != nil {
		return err
	}
	dtRec, err := rd.expect(recDatatype)
	if err != nil {
		return err
	}
	xy, err := rd.expect(recXY)
	if err != nil {
		return err
	}
	if len(xy.data) != 40 {
		return errors.Wrapf(ErrFormat, "boundary ring with %d coordinates", len(xy.data)/4)
	}
	pts := make([]int64, 10)
	for i := range pts {
		pts[i] = int64(int32(binary.BigEndian.Uint32(xy.data[4*i:])))
	}
	if pts[0] != pts[8] || pts[1] != pts[9] {
		return errors.Wrap(ErrFormat, "boundary ring is not closed")
	}
	r := geometry.NewRect(pts[0], pts[1], pts[4], pts[5])
	if r.IsEmpty() {
		return errors.Wrap(ErrFormat, "degenerate boundary")
	}
	// Verify the remaining corners lie on the bounding box.
	for i := 0; i < 8; i += 2 {
		if (pts[i] != r.X1 && pts[i] != r.X2) || (pts[i+1] != r.Y1 && pts[i+1] != r.Y2) {
			return errors.Wrap(ErrFormat, "boundary is not an axis-aligned rectangle")
		}
	}
	layer := tech.Layer{Number: uint16(layerRec.int16At(0)), Datatype: uint16(dtRec.int16At(0))}
	c.Insert(layer, r)
	if _, err := rd.expect(recEndEl); err != nil {
		return err
	}
	return nil
}

// readText consumes LAYER, TEXTTYPE, optional PRESENTATION, XY,
// STRING, ENDEL after a TEXT record.
func readText(rd *reader, c *cell.Cell) error {
	layerRec, err := rd.expect(recLayer)
	if err != nil {
		return err
	}
	ttRec, err := rd.expect(recTextType)
	if err != nil {
		return err
	}
	rec, err := rd.next()
	if err != nil {
		return err
	}
	if rec.rtype == recPresentation {
		rec, err = rd.next()
		if err != nil {
			return err
		}
	}
	if rec.rtype != recXY || len(rec.data) != 8 {
		return errors.Wrap(ErrFormat, "text without anchor point")
	}
	at := geometry.Point{
		X: int64(int32(binary.BigEndian.Uint32(rec.data[0:]))),
		Y: int64(int32(binary.BigEndian.Uint32(rec.data[4:]))),
	}
	strRec, err := rd.expect(recString)
	if err != nil {
		return err
	}
	layer := tech.Layer{Number: uint16(layerRec.int16At(0)), Datatype: uint16(ttRec.int16At(0))}
	c.AddLabel(layer, strRec.str(), at)
	if _, err := rd.expect(recEndEl); err != nil {
		return err
	}
	return nil
}

// ReadFile parses a GDS file.
func ReadFile(path string) (*cell.Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open gds file")
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return c, nil
}
