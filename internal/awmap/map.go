package awmap

import (
	"fmt"
	"time"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

// NoOverride marks a tile with no preserved AWBW orientation.
const NoOverride = -1

// DefaultStyle is the AWS graphic set written when a map has none.
const DefaultStyle = 5

// Tile is a single cell of a Map. X and Y always equal its grid position.
type Tile struct {
	X, Y           int
	Terrain        int
	TerrainCountry int
	Unit           int
	UnitCountry    int
	// AwarenessOverride is the AWBW variant offset seen on decode, or NoOverride.
	AwarenessOverride int
}

func (t Tile) HasUnit() bool     { return t.Unit != elements.NoUnit }
func (t Tile) IsProperty() bool  { return elements.IsProperty(t.Terrain) }
func (t Tile) HasOverride() bool { return t.AwarenessOverride != NoOverride }

// Map is the canonical in-memory map. Tiles are stored row-major and only
// change through SetTerrain, SetUnit and SetAwarenessOverride.
type Map struct {
	Width, Height int
	Title         string
	Author        string
	Description   string
	// Style is the AWS graphic set byte; 0 means unset.
	Style uint8
	// AWBWID is the AWBW map id, 0 when the map did not come from AWBW.
	AWBWID      int
	PlayerCount int
	Published   time.Time
	// OverrideAwareness prefers each tile's AwarenessOverride over the
	// neighbour computation when emitting AWBW.
	OverrideAwareness bool

	tiles []Tile
}

// New returns a w by h map of neutral plains.
func New(w, h int) (*Map, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: map must be at least 1x1, got %dx%d", ErrDimensionMismatch, w, h)
	}
	m := &Map{Width: w, Height: h, tiles: make([]Tile, w*h)}
	for i := range m.tiles {
		x, y := m.XY(i)
		m.tiles[i] = Tile{
			X:                 x,
			Y:                 y,
			Terrain:           elements.Plain,
			AwarenessOverride: NoOverride,
		}
	}
	return m, nil
}

func (m *Map) Idx(x, y int) int      { return y*m.Width + x }
func (m *Map) XY(idx int) (int, int) { return idx % m.Width, idx / m.Width }

// InBounds checks if coordinates are within map boundaries
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Tile returns a copy of the tile at (x, y).
func (m *Map) Tile(x, y int) (Tile, bool) {
	if !m.InBounds(x, y) {
		return Tile{}, false
	}
	return m.tiles[m.Idx(x, y)], true
}

// TerrainAt returns the terrain at (x, y), or 0 off the map.
func (m *Map) TerrainAt(x, y int) int {
	if !m.InBounds(x, y) {
		return 0
	}
	return m.tiles[m.Idx(x, y)].Terrain
}

// Each calls fn for every tile in row-major order.
func (m *Map) Each(fn func(t Tile)) {
	for _, t := range m.tiles {
		fn(t)
	}
}

// Area is Width*Height.
func (m *Map) Area() int { return m.Width * m.Height }

// SetTerrain places terrain t owned by c at (x, y) and clears any orientation
// override. Property terrain may be owned by any country, Neutral included;
// everything else must be neutral. A neutral HQ is legal here but never makes
// a country playable.
func (m *Map) SetTerrain(x, y, t, c int) error {
	if !m.InBounds(x, y) {
		return &MapError{Op: "set terrain", X: x, Y: y, Detail: "out of bounds", Err: ErrInvalidTerrain}
	}
	if !elements.IsValidTerrain(t) {
		return &MapError{Op: "set terrain", X: x, Y: y, Detail: fmt.Sprintf("unknown terrain %d", t), Err: ErrInvalidTerrain}
	}
	switch {
	case elements.IsProperty(t):
		if !elements.IsValidCountry(c) {
			return &MapError{Op: "set terrain", X: x, Y: y, Detail: fmt.Sprintf("unknown country %d", c), Err: ErrInvalidTerrain}
		}
	case c != elements.Neutral:
		return &MapError{Op: "set terrain", X: x, Y: y,
			Detail: fmt.Sprintf("%s cannot be owned by country %d", elements.TerrainName(t), c), Err: ErrInvalidTerrain}
	}

	tile := &m.tiles[m.Idx(x, y)]
	tile.Terrain = t
	tile.TerrainCountry = c
	tile.AwarenessOverride = NoOverride
	return nil
}

// SetUnit places unit u owned by c at (x, y). NoUnit with country 0 clears the tile.
func (m *Map) SetUnit(x, y, u, c int) error {
	if !m.InBounds(x, y) {
		return &MapError{Op: "set unit", X: x, Y: y, Detail: "out of bounds", Err: ErrInvalidUnit}
	}
	if !elements.IsValidUnit(u) {
		return &MapError{Op: "set unit", X: x, Y: y, Detail: fmt.Sprintf("unknown unit %d", u), Err: ErrInvalidUnit}
	}
	if u == elements.NoUnit && c != elements.Neutral {
		return &MapError{Op: "set unit", X: x, Y: y, Detail: "empty tile cannot have a unit owner", Err: ErrInvalidUnit}
	}
	if u != elements.NoUnit && !elements.IsPlayerCountry(c) {
		return &MapError{Op: "set unit", X: x, Y: y, Detail: fmt.Sprintf("unit owner %d is not a player country", c), Err: ErrInvalidUnit}
	}

	tile := &m.tiles[m.Idx(x, y)]
	tile.Unit = u
	tile.UnitCountry = c
	return nil
}

// SetAwarenessOverride records the AWBW variant offset for the tile at (x, y).
// Pass NoOverride to clear it.
func (m *Map) SetAwarenessOverride(x, y, offset int) error {
	if !m.InBounds(x, y) {
		return &MapError{Op: "set override", X: x, Y: y, Detail: "out of bounds", Err: ErrInvalidTerrain}
	}
	if offset < NoOverride {
		return &MapError{Op: "set override", X: x, Y: y, Detail: fmt.Sprintf("negative offset %d", offset), Err: ErrInvalidTerrain}
	}
	m.tiles[m.Idx(x, y)].AwarenessOverride = offset
	return nil
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	c := *m
	c.tiles = make([]Tile, len(m.tiles))
	copy(c.tiles, m.tiles)
	return &c
}

// OwnedProps returns every property tile owned by c in row-major order.
func (m *Map) OwnedProps(c int) []Tile {
	var out []Tile
	for _, t := range m.tiles {
		if t.IsProperty() && t.TerrainCountry == c {
			out = append(out, t)
		}
	}
	return out
}

// DeployedUnits returns every tile holding a unit owned by c.
func (m *Map) DeployedUnits(c int) []Tile {
	var out []Tile
	for _, t := range m.tiles {
		if t.HasUnit() && t.UnitCountry == c {
			out = append(out, t)
		}
	}
	return out
}

// IsPlayable reports whether c owns an HQ or Lab and either a production
// property or a deployed unit. Neutral is never playable.
func (m *Map) IsPlayable(c int) bool {
	if !elements.IsPlayerCountry(c) {
		return false
	}
	var hq, prod bool
	for _, t := range m.OwnedProps(c) {
		hq = hq || elements.IsHeadquarters(t.Terrain)
		prod = prod || elements.IsProduction(t.Terrain)
	}
	if !hq {
		return false
	}
	return prod || len(m.DeployedUnits(c)) > 0
}

// PlayableCountries returns the playable countries in ascending order.
func (m *Map) PlayableCountries() []int {
	var out []int
	for c := elements.OrangeStar; c <= elements.NumCountries; c++ {
		if m.IsPlayable(c) {
			out = append(out, c)
		}
	}
	return out
}

// Equivalent reports whether a and b have the same dimensions and the same
// terrain and units on every tile. Metadata and orientation overrides are ignored.
func Equivalent(a, b *Map) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for i := range a.tiles {
		ta, tb := a.tiles[i], b.tiles[i]
		if ta.Terrain != tb.Terrain || ta.TerrainCountry != tb.TerrainCountry ||
			ta.Unit != tb.Unit || ta.UnitCountry != tb.UnitCountry {
			return false
		}
	}
	return true
}
