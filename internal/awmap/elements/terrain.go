package elements

import "sort"

// Canonical terrain IDs.
const (
	Plain      = 1
	Mountain   = 2
	Wood       = 3
	Road       = 4
	Bridge     = 5
	Sea        = 6
	Shoal      = 7
	Reef       = 8
	River      = 9
	Pipe       = 10
	Seam       = 11
	BrokenSeam = 12
	Silo       = 13
	EmptySilo  = 14
	Ruins      = 15

	HQ      = 101
	City    = 102
	Base    = 103
	Airport = 104
	Seaport = 105
	Tower   = 106
	Lab     = 107

	Volcano            = 500
	GiantMissile       = 501
	Fortress           = 502
	FlyingFortressLand = 503
	FlyingFortressSea  = 504
	BlackCannonNorth   = 505
	BlackCannonSouth   = 506
	MiniCannonNorth    = 507
	MiniCannonSouth    = 508
	MiniCannonEast     = 509
	MiniCannonWest     = 510
	LaserCannon        = 511
	Deathray           = 512
	Crystal            = 513
	BlackCrystal       = 514

	NullTile = 999
)

var terrainNames = map[int]string{
	Plain:              "Plain",
	Mountain:           "Mountain",
	Wood:               "Wood",
	Road:               "Road",
	Bridge:             "Bridge",
	Sea:                "Sea",
	Shoal:              "Shoal",
	Reef:               "Reef",
	River:              "River",
	Pipe:               "Pipe",
	Seam:               "Pipe Seam",
	BrokenSeam:         "Broken Seam",
	Silo:               "Missile Silo",
	EmptySilo:          "Empty Silo",
	Ruins:              "Ruins",
	HQ:                 "HQ",
	City:               "City",
	Base:               "Base",
	Airport:            "Airport",
	Seaport:            "Seaport",
	Tower:              "Com Tower",
	Lab:                "Lab",
	Volcano:            "Volcano",
	GiantMissile:       "Giant Missile",
	Fortress:           "Fortress",
	FlyingFortressLand: "Flying Fortress (Land)",
	FlyingFortressSea:  "Flying Fortress (Sea)",
	BlackCannonNorth:   "Black Cannon (North)",
	BlackCannonSouth:   "Black Cannon (South)",
	MiniCannonNorth:    "Mini Cannon (North)",
	MiniCannonSouth:    "Mini Cannon (South)",
	MiniCannonEast:     "Mini Cannon (East)",
	MiniCannonWest:     "Mini Cannon (West)",
	LaserCannon:        "Laser Cannon",
	Deathray:           "Deathray",
	Crystal:            "Crystal",
	BlackCrystal:       "Black Crystal",
	NullTile:           "Teleport",
}

// Properties lists the seven capturable terrains in ID order.
var Properties = []int{HQ, City, Base, Airport, Seaport, Tower, Lab}

// directional terrains have a graphic that depends on their neighbours.
var directional = map[int]bool{
	Road:       true,
	Bridge:     true,
	Shoal:      true,
	River:      true,
	Pipe:       true,
	Seam:       true,
	BrokenSeam: true,
}

// IsValidTerrain reports whether t is in the canonical terrain space.
func IsValidTerrain(t int) bool {
	_, ok := terrainNames[t]
	return ok
}

// TerrainName returns a display name, or "Unknown".
func TerrainName(t int) string {
	if n, ok := terrainNames[t]; ok {
		return n
	}
	return "Unknown"
}

// IsProperty reports whether t is one of HQ..Lab.
func IsProperty(t int) bool { return t >= HQ && t <= Lab }

// IsProduction reports whether t builds units.
func IsProduction(t int) bool { return t == Base || t == Airport || t == Seaport }

// IsHeadquarters reports whether losing t ends the game for its owner.
func IsHeadquarters(t int) bool { return t == HQ || t == Lab }

// IsDirectional reports whether t's graphic depends on its neighbours.
func IsDirectional(t int) bool { return directional[t] }

// DirectionalTerrains returns the directional terrain IDs in ascending order.
func DirectionalTerrains() []int {
	return []int{Road, Bridge, Shoal, River, Pipe, Seam, BrokenSeam}
}

// Category groups terrains for the orientation resolver.
type Category int

const (
	CategoryLand Category = iota
	CategorySea
	CategoryProperties
)

var (
	seaTerrains = map[int]bool{
		Sea:               true,
		Reef:              true,
		FlyingFortressSea: true,
	}
	// River and Shoal sit between land and sea and belong to neither.
	neitherTerrains = map[int]bool{
		River:    true,
		Shoal:    true,
		NullTile: true,
	}
)

// InCategory reports whether t belongs to cat. Properties are a subset of land.
func InCategory(t int, cat Category) bool {
	if !IsValidTerrain(t) {
		return false
	}
	switch cat {
	case CategoryProperties:
		return IsProperty(t)
	case CategorySea:
		return seaTerrains[t]
	case CategoryLand:
		return !seaTerrains[t] && !neitherTerrains[t]
	}
	return false
}

// TerrainsIn returns every canonical terrain in cat, in ascending order.
func TerrainsIn(cat Category) []int {
	var out []int
	for t := range terrainNames {
		if InCategory(t, cat) {
			out = append(out, t)
		}
	}
	sort.Ints(out)
	return out
}
