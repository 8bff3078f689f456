// Package orientation picks the AWBW graphic variant of directional terrain
// from its four neighbours.
package orientation

import (
	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
	"github.com/SirThane/BattleMaps-sub000/internal/common"
)

// AdjMatch returns the 4-bit neighbour mask for (x, y): bit d is set when the
// neighbour in direction d holds a terrain in set. Off-map neighbours never match.
func AdjMatch(m *awmap.Map, x, y int, set map[int]bool) int {
	mask := 0
	origin := common.NewCoordinate(x, y)
	for _, d := range common.Directions {
		n := origin.Move(d)
		if !m.InBounds(n.X, n.Y) {
			continue
		}
		if set[m.TerrainAt(n.X, n.Y)] {
			mask |= d.Bit()
		}
	}
	return mask
}

// Offset returns the variant offset of the directional tile at (x, y) and
// whether the tile is directional at all. A preserved override wins when the
// map prefers overrides and the override names an existing variant.
func Offset(m *awmap.Map, x, y int) (int, bool) {
	tile, ok := m.Tile(x, y)
	if !ok {
		return 0, false
	}
	table, ok := elements.Awareness(tile.Terrain)
	if !ok {
		return 0, false
	}
	if m.OverrideAwareness && tile.HasOverride() && tile.AwarenessOverride < elements.VariantCount(tile.Terrain) {
		return tile.AwarenessOverride, true
	}
	return table[AdjMatch(m, x, y, elements.AwarenessSet(tile.Terrain))], true
}

// AWBWCode returns the AWBW terrain code to emit for (x, y). Terrain with no
// AWBW representation yields elements.AWBWBlank.
func AWBWCode(m *awmap.Map, x, y int) int {
	tile, ok := m.Tile(x, y)
	if !ok {
		return elements.AWBWBlank
	}
	codes := elements.AWBWTerrainCodes(tile.Terrain, tile.TerrainCountry)
	if len(codes) == 0 {
		return elements.AWBWBlank
	}
	idx := 0
	if off, directional := Offset(m, x, y); directional {
		idx = off
	} else if m.OverrideAwareness && tile.HasOverride() && tile.AwarenessOverride < len(codes) {
		// non-directional variants, such as the teleporter null tile
		idx = tile.AwarenessOverride
	}
	if idx >= len(codes) {
		idx = 0
	}
	return codes[idx]
}
