package elements

// Owned pairs a canonical terrain or unit ID with the country that owns it.
type Owned struct {
	ID      int
	Country int
}

const (
	// AWSPlain is written for terrain with no AWS equivalent.
	AWSPlain uint16 = 0
	// AWSNoUnit marks an empty tile in the unit stream.
	AWSNoUnit uint16 = 0xFFFF
)

// Canonical terrain with no AWS code is redirected before lookup.
var awsOverrides = map[Owned]Owned{
	{EmptySilo, Neutral}: {Silo, Neutral},
	{Ruins, Neutral}:     {BrokenSeam, Neutral},
	{HQ, Neutral}:        {City, Neutral},
	{NullTile, Neutral}:  {MiniCannonSouth, Neutral},
}

// Natural terrain. Bridges and shoals carry per-orientation codes in AWS;
// the first code is the one written on encode.
var awsNatural = map[int][]uint16{
	Plain:      {0},
	Road:       {1},
	Bridge:     {2, 32},
	River:      {3},
	Wood:       {30},
	Mountain:   {60},
	Sea:        {90},
	Shoal:      {91, 92, 93, 94},
	Reef:       {120},
	Pipe:       {150},
	Seam:       {151},
	BrokenSeam: {152},
	Silo:       {167},
}

// Special structures: code = 900 + 10*(id-500) + part, where part indexes
// the covered tiles of a multi-tile structure, top-left first.
var awsStructureParts = map[int]int{
	Volcano:            9,
	GiantMissile:       9,
	Fortress:           9,
	FlyingFortressLand: 9,
	FlyingFortressSea:  9,
	BlackCannonNorth:   6,
	BlackCannonSouth:   6,
	MiniCannonNorth:    1,
	MiniCannonSouth:    1,
	MiniCannonEast:     1,
	MiniCannonWest:     1,
	LaserCannon:        1,
	Deathray:           9,
	Crystal:            1,
	BlackCrystal:       1,
}

const (
	awsPropertyBase  = 300
	awsStructureBase = 900
	awsUnitBase      = 500
	awsUnitStride    = 40
)

var (
	awsTerrainCodes  = make(map[Owned][]uint16)
	awsTerrainLookup = make(map[uint16]Owned)
	awsUnitCodes     = make(map[Owned]uint16)
	awsUnitLookup    = make(map[uint16]Owned)
)

func init() {
	for t, codes := range awsNatural {
		registerAWSTerrain(Owned{t, Neutral}, codes...)
	}
	for c := Neutral; c <= awsPlayerCountries; c++ {
		for i, p := range Properties {
			if p == HQ && c == Neutral {
				continue
			}
			registerAWSTerrain(Owned{p, c}, uint16(awsPropertyBase+c*10+i))
		}
	}
	for t, parts := range awsStructureParts {
		codes := make([]uint16, parts)
		for i := range codes {
			codes[i] = uint16(awsStructureBase + 10*(t-Volcano) + i)
		}
		registerAWSTerrain(Owned{t, Neutral}, codes...)
	}
	for c := 1; c <= awsPlayerCountries; c++ {
		for i, u := range Units {
			code := uint16(awsUnitBase + (c-1)*awsUnitStride + i)
			awsUnitCodes[Owned{u, c}] = code
			awsUnitLookup[code] = Owned{u, c}
		}
	}
}

func registerAWSTerrain(o Owned, codes ...uint16) {
	awsTerrainCodes[o] = codes
	for _, code := range codes {
		if _, dup := awsTerrainLookup[code]; !dup {
			awsTerrainLookup[code] = o
		}
	}
}

// normalizeOwner drops the country from non-property terrain.
func normalizeOwner(t, c int) Owned {
	if !IsProperty(t) {
		return Owned{t, Neutral}
	}
	return Owned{t, c}
}

// AWSTerrainCodes returns every AWS code for canonical terrain t owned by c,
// after country reduction and overrides. The result is nil when AWS has no
// representation; callers should then write AWSPlain.
func AWSTerrainCodes(t, c int) []uint16 {
	key := normalizeOwner(t, AWSCountry(c))
	if o, ok := awsOverrides[key]; ok {
		key = o
	}
	return awsTerrainCodes[key]
}

// AWSTerrainCode returns the code written on encode for (t, c).
func AWSTerrainCode(t, c int) uint16 {
	if codes := AWSTerrainCodes(t, c); len(codes) > 0 {
		return codes[0]
	}
	return AWSPlain
}

// AWSTerrain translates an AWS terrain code, defaulting to neutral plain.
func AWSTerrain(code uint16) Owned {
	if o, ok := awsTerrainLookup[code]; ok {
		return o
	}
	return Owned{Plain, Neutral}
}

// AWSUnitCode returns the AWS code for unit u owned by c, or AWSNoUnit.
func AWSUnitCode(u, c int) uint16 {
	if u == NoUnit {
		return AWSNoUnit
	}
	if code, ok := awsUnitCodes[Owned{u, AWSCountry(c)}]; ok {
		return code
	}
	return AWSNoUnit
}

// AWSUnit translates an AWS unit code, defaulting to no unit.
func AWSUnit(code uint16) Owned {
	if o, ok := awsUnitLookup[code]; ok {
		return o
	}
	return Owned{NoUnit, Neutral}
}
