// Package aws reads and writes the binary map format of the AWS map editor.
//
// Layout, little-endian throughout:
//
//	0   10      "AWSMap001\x00"
//	10  1       width
//	11  1       height
//	12  1       style
//	13  2*W*H   terrain codes, column-major
//	..  2*W*H   unit codes, column-major, 0xFFFF for none
//	..  4+t     title
//	..  4+a     author
//	..  4+d     description
package aws

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

// Magic opens every AWS file.
const Magic = "AWSMap001\x00"

// Ext is the usual file extension.
const Ext = ".aws"

const (
	headerSize = len(Magic) + 3
	maxSide    = math.MaxUint8
)

// IsAWS reports whether data starts with the AWS magic.
func IsAWS(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// reader walks a buffer and reports overruns as ErrBadFormat.
type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int, what string) ([]byte, error) {
	if n < 0 || len(r.buf)-r.off < n {
		return nil, awmap.BadFormat("truncated %s at offset %d: need %d bytes, have %d", what, r.off, n, len(r.buf)-r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) codes(n int, what string) ([]uint16, error) {
	b, err := r.take(2*n, what)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return out, nil
}

func (r *reader) text(what string) (string, error) {
	lb, err := r.take(4, what+" length")
	if err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint32(lb)
	if uint64(n) > uint64(len(r.buf)-r.off) {
		return "", awmap.BadFormat("%s length %d overruns buffer at offset %d", what, n, r.off)
	}
	b, _ := r.take(int(n), what)
	return string(b), nil
}

// Decode parses an AWS file. No map is returned on error.
func Decode(data []byte) (*awmap.Map, error) {
	r := &reader{buf: data}

	magic, err := r.take(len(Magic), "magic")
	if err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		return nil, awmap.BadFormat("bad magic %q", magic)
	}
	hdr, err := r.take(3, "header")
	if err != nil {
		return nil, err
	}
	w, h, style := int(hdr[0]), int(hdr[1]), hdr[2]
	if w == 0 || h == 0 {
		return nil, awmap.BadFormat("declared dimensions %dx%d", w, h)
	}

	terrain, err := r.codes(w*h, "terrain stream")
	if err != nil {
		return nil, err
	}
	units, err := r.codes(w*h, "unit stream")
	if err != nil {
		return nil, err
	}

	m, err := awmap.New(w, h)
	if err != nil {
		return nil, awmap.BadFormat("%v", err)
	}
	m.Style = style

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			idx := y + x*h
			t := elements.AWSTerrain(terrain[idx])
			if err := m.SetTerrain(x, y, t.ID, t.Country); err != nil {
				return nil, fmt.Errorf("%w: terrain code %d: %v", awmap.ErrBadFormat, terrain[idx], err)
			}
			u := elements.AWSUnit(units[idx])
			if err := m.SetUnit(x, y, u.ID, u.Country); err != nil {
				return nil, fmt.Errorf("%w: unit code %d: %v", awmap.ErrBadFormat, units[idx], err)
			}
		}
	}

	if m.Title, err = r.text("title"); err != nil {
		return nil, err
	}
	if m.Author, err = r.text("author"); err != nil {
		return nil, err
	}
	if m.Description, err = r.text("description"); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode writes m as an AWS file. Style 0 is written as awmap.DefaultStyle.
func Encode(m *awmap.Map) ([]byte, error) {
	if m.Width < 1 || m.Height < 1 || m.Width > maxSide || m.Height > maxSide {
		return nil, fmt.Errorf("%w: AWS maps are 1..%d tiles per side, got %dx%d",
			awmap.ErrDimensionMismatch, maxSide, m.Width, m.Height)
	}
	for _, s := range []string{m.Title, m.Author, m.Description} {
		if uint64(len(s)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: metadata string too long", awmap.ErrBadFormat)
		}
	}

	area := m.Width * m.Height
	var buf bytes.Buffer
	buf.Grow(headerSize + 4*area + 12 + len(m.Title) + len(m.Author) + len(m.Description))

	style := m.Style
	if style == 0 {
		style = awmap.DefaultStyle
	}
	buf.WriteString(Magic)
	buf.Write([]byte{byte(m.Width), byte(m.Height), style})

	terrain := make([]byte, 2*area)
	units := make([]byte, 2*area)
	m.Each(func(t awmap.Tile) {
		idx := 2 * (t.Y + t.X*m.Height)
		binary.LittleEndian.PutUint16(terrain[idx:], elements.AWSTerrainCode(t.Terrain, t.TerrainCountry))
		binary.LittleEndian.PutUint16(units[idx:], elements.AWSUnitCode(t.Unit, t.UnitCountry))
	})
	buf.Write(terrain)
	buf.Write(units)

	var lb [4]byte
	for _, s := range []string{m.Title, m.Author, m.Description} {
		binary.LittleEndian.PutUint32(lb[:], uint32(len(s)))
		buf.Write(lb[:])
		buf.WriteString(s)
	}
	return buf.Bytes(), nil
}
