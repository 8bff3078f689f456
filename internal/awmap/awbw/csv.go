// Package awbw converts between the canonical map model and the AWBW web
// formats: row-major terrain CSV and the JSON returned by the map API.
package awbw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/orientation"
)

// DecodeCSV parses an AWBW terrain CSV. An empty cell is the teleport tile.
// A single trailing newline and CRLF line endings are accepted.
func DecodeCSV(s string) (*awmap.Map, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")
	grid := make([][]int, len(lines))
	for y, line := range lines {
		cells := strings.Split(line, ",")
		if y > 0 && len(cells) != len(grid[0]) {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				awmap.ErrDimensionMismatch, y, len(cells), len(grid[0]))
		}
		row := make([]int, len(cells))
		for x, cell := range cells {
			code, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", awmap.ErrBadFormat, y, x, err)
			}
			row[x] = code
		}
		grid[y] = row
	}
	return fromRows(grid)
}

func parseCell(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return elements.AWBWBlank, nil
	}
	code, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("cell %q is not an integer", cell)
	}
	if code < 0 {
		return 0, fmt.Errorf("cell %d is negative", code)
	}
	return code, nil
}

// fromRows builds a map from row-major AWBW terrain codes. Orientation of
// directional tiles is kept as each tile's awareness override.
func fromRows(grid [][]int) (*awmap.Map, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("%w: empty terrain grid", awmap.ErrDimensionMismatch)
	}
	m, err := awmap.New(len(grid[0]), len(grid))
	if err != nil {
		return nil, err
	}
	m.OverrideAwareness = true

	for y, row := range grid {
		if len(row) != m.Width {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				awmap.ErrDimensionMismatch, y, len(row), m.Width)
		}
		for x, code := range row {
			owner, variant := elements.AWBWTerrain(code)
			if err := m.SetTerrain(x, y, owner.ID, owner.Country); err != nil {
				return nil, fmt.Errorf("%w: terrain code %d: %v", awmap.ErrBadFormat, code, err)
			}
			if elements.IsDirectional(owner.ID) || variant > 0 {
				if err := m.SetAwarenessOverride(x, y, variant); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

// EncodeCSV writes m as a row-major AWBW CSV with no trailing newline.
// Directional terrain is oriented by the resolver; terrain AWBW cannot show
// becomes an empty cell.
func EncodeCSV(m *awmap.Map) string {
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < m.Width; x++ {
			if x > 0 {
				b.WriteByte(',')
			}
			if code := orientation.AWBWCode(m, x, y); code != elements.AWBWBlank {
				b.WriteString(strconv.Itoa(code))
			}
		}
	}
	return b.String()
}

// Rows returns the AWBW codes EncodeCSV would write, row-major.
func Rows(m *awmap.Map) [][]int {
	out := make([][]int, m.Height)
	for y := range out {
		out[y] = make([]int, m.Width)
		for x := range out[y] {
			out[y][x] = orientation.AWBWCode(m, x, y)
		}
	}
	return out
}
