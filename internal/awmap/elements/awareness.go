package elements

// Neighbour mask bits, one per cardinal direction.
const (
	MaskNorth = 1 << iota
	MaskEast
	MaskSouth
	MaskWest
)

// AwarenessTable maps a 4-bit neighbour mask to an AWBW variant offset.
type AwarenessTable [16]int

// Road and river share a layout:
// 0 H, 1 V, 2 cross, 3 ES, 4 SW, 5 WN, 6 NE, 7 ESW, 8 SWN, 9 WNE, 10 NES.
var lineTable = AwarenessTable{
	0:                                           0,
	MaskNorth:                                   1,
	MaskEast:                                    0,
	MaskNorth | MaskEast:                        6,
	MaskSouth:                                   1,
	MaskNorth | MaskSouth:                       1,
	MaskEast | MaskSouth:                        3,
	MaskNorth | MaskEast | MaskSouth:            10,
	MaskWest:                                    0,
	MaskNorth | MaskWest:                        5,
	MaskEast | MaskWest:                         0,
	MaskNorth | MaskEast | MaskWest:             9,
	MaskSouth | MaskWest:                        4,
	MaskNorth | MaskSouth | MaskWest:            8,
	MaskEast | MaskSouth | MaskWest:             7,
	MaskNorth | MaskEast | MaskSouth | MaskWest: 2,
}

// Pipe: 0 V, 1 H, 2 NE, 3 ES, 4 SW, 5 WN, 6 N end, 7 E end, 8 S end, 9 W end.
// An end is named for the side it caps, so a pipe arriving from the south
// ends with its north side capped.
var pipeTable = AwarenessTable{
	0:                                           0,
	MaskNorth:                                   8,
	MaskEast:                                    9,
	MaskNorth | MaskEast:                        2,
	MaskSouth:                                   6,
	MaskNorth | MaskSouth:                       0,
	MaskEast | MaskSouth:                        3,
	MaskNorth | MaskEast | MaskSouth:            0,
	MaskWest:                                    7,
	MaskNorth | MaskWest:                        5,
	MaskEast | MaskWest:                         1,
	MaskNorth | MaskEast | MaskWest:             1,
	MaskSouth | MaskWest:                        4,
	MaskNorth | MaskSouth | MaskWest:            0,
	MaskEast | MaskSouth | MaskWest:             1,
	MaskNorth | MaskEast | MaskSouth | MaskWest: 0,
}

// Shoal: 0 land south, 1 land north, 2 land west, 3 land east.
// North wins over south, south over east, east over west.
var shoalTable = func() AwarenessTable {
	var t AwarenessTable
	for m := range t {
		switch {
		case m&MaskNorth != 0:
			t[m] = 1
		case m&MaskSouth != 0:
			t[m] = 0
		case m&MaskEast != 0:
			t[m] = 3
		case m&MaskWest != 0:
			t[m] = 2
		}
	}
	return t
}()

// spanTable is for two-variant terrain (0 H, 1 V): vertical when more
// vertical than horizontal neighbours match, horizontal otherwise.
var spanTable = func() AwarenessTable {
	var t AwarenessTable
	for m := range t {
		vertical := bitCount(m & (MaskNorth | MaskSouth))
		horizontal := bitCount(m & (MaskEast | MaskWest))
		if vertical > horizontal {
			t[m] = 1
		}
	}
	return t
}()

func bitCount(m int) int {
	n := 0
	for ; m != 0; m &= m - 1 {
		n++
	}
	return n
}

var awarenessTables = map[int]AwarenessTable{
	Road:       lineTable,
	River:      lineTable,
	Bridge:     spanTable,
	Shoal:      shoalTable,
	Pipe:       pipeTable,
	Seam:       spanTable,
	BrokenSeam: spanTable,
}

var awarenessSets = func() map[int]map[int]bool {
	set := func(ids ...int) map[int]bool {
		s := make(map[int]bool, len(ids))
		for _, id := range ids {
			s[id] = true
		}
		return s
	}
	land := TerrainsIn(CategoryLand)

	road := set(Road, Bridge, Silo, EmptySilo)
	for _, p := range TerrainsIn(CategoryProperties) {
		road[p] = true
	}
	bridge := set(append([]int{Shoal}, land...)...)
	shoal := set(append([]int{River}, land...)...)
	pipes := set(Pipe, Seam, BrokenSeam)

	return map[int]map[int]bool{
		Road:       road,
		Bridge:     bridge,
		Shoal:      shoal,
		River:      set(Bridge, River),
		Pipe:       pipes,
		Seam:       pipes,
		BrokenSeam: pipes,
	}
}()

// AwarenessSet returns the terrains t connects to, or nil when t is not
// directional. The returned map must not be modified.
func AwarenessSet(t int) map[int]bool { return awarenessSets[t] }

// Awareness returns the mask-to-offset table for directional terrain t.
func Awareness(t int) (AwarenessTable, bool) {
	tbl, ok := awarenessTables[t]
	return tbl, ok
}

// VariantCount returns k_T, the number of AWBW variants for t.
func VariantCount(t int) int { return len(AWBWTerrainCodes(t, Neutral)) }
