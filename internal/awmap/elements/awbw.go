package elements

import "sort"

const (
	// AWBWBlank is the empty CSV cell.
	AWBWBlank = 0
	// AWBWTeleporter is the explicit teleporter tile.
	AWBWTeleporter = 195
)

// seq returns n consecutive codes starting at first.
func seq(first, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = first + i
	}
	return out
}

type awbwEntry struct {
	owner Owned
	codes []int
}

// Registration order matters: the first owner registered for a code wins the
// inverse lookup.
var awbwNatural = []awbwEntry{
	{Owned{Plain, Neutral}, []int{1}},
	{Owned{Mountain, Neutral}, []int{2}},
	{Owned{Wood, Neutral}, []int{3}},
	// H, V, cross, ES, SW, WN, NE, ESW, SWN, WNE, NES
	{Owned{River, Neutral}, seq(4, 11)},
	{Owned{Road, Neutral}, seq(15, 11)},
	// H, V
	{Owned{Bridge, Neutral}, []int{26, 27}},
	{Owned{Sea, Neutral}, []int{28}},
	// land south, land north, land west, land east
	{Owned{Shoal, Neutral}, []int{29, 30, 31, 32}},
	{Owned{Reef, Neutral}, []int{33}},
	// V, H, NE, ES, SW, WN, N end, E end, S end, W end
	{Owned{Pipe, Neutral}, seq(101, 10)},
	{Owned{Silo, Neutral}, []int{111}},
	{Owned{EmptySilo, Neutral}, []int{112}},
	// H, V
	{Owned{Seam, Neutral}, []int{113, 114}},
	{Owned{BrokenSeam, Neutral}, []int{115, 116}},
	{Owned{NullTile, Neutral}, []int{AWBWBlank, AWBWTeleporter}},
}

// AWBW property codes per country, in Properties order:
// HQ, City, Base, Airport, Seaport, Tower, Lab. 0 means no such tile.
var awbwProperties = map[int][7]int{
	Neutral:     {0, 34, 35, 36, 37, 133, 145},
	OrangeStar:  {42, 38, 39, 40, 41, 134, 146},
	BlueMoon:    {47, 43, 44, 45, 46, 129, 140},
	GreenEarth:  {52, 48, 49, 50, 51, 131, 142},
	YellowComet: {57, 53, 54, 55, 56, 136, 148},
	BlackHole:   {95, 91, 92, 93, 94, 128, 139},
	RedFire:     {85, 81, 82, 83, 84, 135, 147},
	GreySky:     {90, 86, 87, 88, 89, 137, 143},
	BrownDesert: {100, 96, 97, 98, 99, 130, 141},
	AmberBlaze:  {120, 119, 118, 117, 121, 127, 138},
	JadeSun:     {125, 124, 123, 122, 126, 132, 144},
}

// Later factions were added as alphabetical blocks of seven:
// Airport, Base, City, Tower, HQ, Lab, Seaport.
var awbwPropertyBlocks = map[int]int{
	CobaltIce:       149,
	PinkCosmos:      156,
	TealGalaxy:      163,
	PurpleLightning: 170,
	AcidRain:        181,
	WhiteNova:       188,
	AzureAsteroid:   196,
	NoirEclipse:     203,
}

func blockProperties(first int) [7]int {
	return [7]int{first + 4, first + 2, first + 1, first, first + 6, first + 3, first + 5}
}

var awbwOverrides = map[Owned]Owned{
	{Ruins, Neutral}: {BrokenSeam, Neutral},
	{HQ, Neutral}:    {City, Neutral},
}

// AWBW unit IDs as returned by the map API.
var awbwUnits = map[int]int{
	1:       Infantry,
	2:       Mech,
	3:       MdTank,
	4:       Tank,
	5:       Recon,
	6:       APC,
	7:       Artillery,
	8:       Rocket,
	9:       AntiAir,
	10:      Missile,
	11:      Fighter,
	12:      Bomber,
	13:      BCopter,
	14:      TCopter,
	15:      Battleship,
	16:      Cruiser,
	17:      Lander,
	18:      Submarine,
	28:      BlackBoat,
	29:      Carrier,
	30:      Stealth,
	46:      Neotank,
	960900:  Piperunner,
	968731:  BlackBomb,
	1141438: Megatank,
}

type awbwVariant struct {
	owner Owned
	index int
}

var (
	awbwTerrainCodes  = make(map[Owned][]int)
	awbwTerrainLookup = make(map[int]awbwVariant)
	awbwUnitIDs       = make(map[int]int)
)

func init() {
	for _, e := range awbwNatural {
		registerAWBWTerrain(e.owner, e.codes)
	}
	countryIDs := make([]int, 0, NumCountries+1)
	for c := range awbwProperties {
		countryIDs = append(countryIDs, c)
	}
	for c := range awbwPropertyBlocks {
		countryIDs = append(countryIDs, c)
	}
	sort.Ints(countryIDs)
	for _, c := range countryIDs {
		codes, ok := awbwProperties[c]
		if !ok {
			codes = blockProperties(awbwPropertyBlocks[c])
		}
		for i, p := range Properties {
			if codes[i] == 0 {
				continue
			}
			registerAWBWTerrain(Owned{p, c}, []int{codes[i]})
		}
	}
	for id, u := range awbwUnits {
		awbwUnitIDs[u] = id
	}
}

func registerAWBWTerrain(o Owned, codes []int) {
	awbwTerrainCodes[o] = codes
	for i, code := range codes {
		if _, dup := awbwTerrainLookup[code]; !dup {
			awbwTerrainLookup[code] = awbwVariant{owner: o, index: i}
		}
	}
}

// AWBWTerrainCodes returns the AWBW codes for (t, c). Directional terrain
// returns one code per orientation; the resolver picks the index. The result
// is nil when AWBW has no representation, which encodes as a blank cell.
func AWBWTerrainCodes(t, c int) []int {
	key := normalizeOwner(t, c)
	if o, ok := awbwOverrides[key]; ok {
		key = o
	}
	return awbwTerrainCodes[key]
}

// AWBWTerrain translates an AWBW terrain code into its canonical owner and
// the index of code among that terrain's variants. Unknown codes decode as
// neutral plain.
func AWBWTerrain(code int) (Owned, int) {
	if v, ok := awbwTerrainLookup[code]; ok {
		return v.owner, v.index
	}
	return Owned{Plain, Neutral}, 0
}

// AWBWUnit translates an AWBW unit ID, defaulting to NoUnit.
func AWBWUnit(id int) int {
	if u, ok := awbwUnits[id]; ok {
		return u
	}
	return NoUnit
}

// AWBWUnitID is the inverse of AWBWUnit; ok is false for Oozium and NoUnit.
func AWBWUnitID(u int) (int, bool) {
	id, ok := awbwUnitIDs[u]
	return id, ok
}
