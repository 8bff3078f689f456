// Package mapgen builds random canonical maps from a seeded RNG. The same
// config and seed always give the same map.
package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
	"github.com/SirThane/BattleMaps-sub000/internal/common"
)

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width        int
	Height       int
	PlayerCount  int
	CityRatio    int // 1 city per N tiles
	MinHQSpacing int
	// Ring the map with sea and scatter shoals on the coast.
	SeaBorder        bool
	NumMountainVeins int
	MinVeinLength    int
	MaxVeinLength    int
	NumRivers        int
	// Connect consecutive HQs with roads.
	Roads bool
	// Deploy one infantry next to each HQ.
	Units bool
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h, players int) MapConfig {
	return MapConfig{
		Width:            w,
		Height:           h,
		PlayerCount:      players,
		CityRatio:        20,
		MinHQSpacing:     5,
		SeaBorder:        w >= 8 && h >= 8,
		NumMountainVeins: (w * h) / 50,
		MinVeinLength:    3,
		MaxVeinLength:    max(3, w/4),
		NumRivers:        (w * h) / 200,
		Roads:            true,
		Units:            true,
	}
}

// Validate checks the config can produce a map.
func (c MapConfig) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("map must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	if c.Width > 255 || c.Height > 255 {
		return fmt.Errorf("map must be at most 255x255, got %dx%d", c.Width, c.Height)
	}
	if c.PlayerCount < 0 || c.PlayerCount > elements.NumCountries {
		return fmt.Errorf("player count must be 0..%d, got %d", elements.NumCountries, c.PlayerCount)
	}
	if c.CityRatio < 0 {
		return fmt.Errorf("city ratio must not be negative")
	}
	if c.MinVeinLength > c.MaxVeinLength {
		return fmt.Errorf("min vein length %d exceeds max %d", c.MinVeinLength, c.MaxVeinLength)
	}
	return nil
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// HQPlacement tracks where a country's HQ was placed
type HQPlacement struct {
	Country int
	X, Y    int
}

// GenerateMap creates a new map with terrain, properties and HQs placed
func (g *Generator) GenerateMap() (*awmap.Map, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}
	m, err := awmap.New(g.config.Width, g.config.Height)
	if err != nil {
		return nil, err
	}
	m.Title = fmt.Sprintf("Generated %dx%d", m.Width, m.Height)
	m.Author = "mapgen"
	m.PlayerCount = g.config.PlayerCount

	steps := []func(*awmap.Map) error{
		g.placeSea,
		g.placeMountains,
		g.placeRivers,
		g.placeCities,
	}
	for _, step := range steps {
		if err := step(m); err != nil {
			return nil, err
		}
	}

	hqs, err := g.placeHQs(m)
	if err != nil {
		return nil, err
	}
	if g.config.Roads {
		if err := g.placeRoads(m, hqs); err != nil {
			return nil, err
		}
	}
	if g.config.Units {
		if err := g.placeUnits(m, hqs); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (g *Generator) placeSea(m *awmap.Map) error {
	if !g.config.SeaBorder {
		return nil
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if x != 0 && y != 0 && x != m.Width-1 && y != m.Height-1 {
				continue
			}
			terrain := elements.Sea
			if g.rng.Intn(6) == 0 {
				terrain = elements.Reef
			}
			if err := m.SetTerrain(x, y, terrain, elements.Neutral); err != nil {
				return err
			}
		}
	}
	// Shoals on the coast, only where they touch land.
	for y := 1; y < m.Height-1; y++ {
		for _, x := range []int{1, m.Width - 2} {
			if m.TerrainAt(x, y) == elements.Plain && g.rng.Intn(4) == 0 {
				if err := m.SetTerrain(x, y, elements.Shoal, elements.Neutral); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// placeMountains random-walks NumMountainVeins veins of mountain and wood
// over plains.
func (g *Generator) placeMountains(m *awmap.Map) error {
	for v := 0; v < g.config.NumMountainVeins; v++ {
		length := g.config.MinVeinLength
		if span := g.config.MaxVeinLength - g.config.MinVeinLength; span > 0 {
			length += g.rng.Intn(span + 1)
		}
		pos := common.NewCoordinate(g.rng.Intn(m.Width), g.rng.Intn(m.Height))
		for i := 0; i < length; i++ {
			if m.TerrainAt(pos.X, pos.Y) == elements.Plain {
				terrain := elements.Mountain
				if g.rng.Intn(3) == 0 {
					terrain = elements.Wood
				}
				if err := m.SetTerrain(pos.X, pos.Y, terrain, elements.Neutral); err != nil {
					return err
				}
			}
			next := pos.Move(common.Directions[g.rng.Intn(len(common.Directions))])
			if next.IsValid(m.Width, m.Height) {
				pos = next
			}
		}
	}
	return nil
}

// placeRivers runs straight north-south rivers across land.
func (g *Generator) placeRivers(m *awmap.Map) error {
	for r := 0; r < g.config.NumRivers; r++ {
		x := g.rng.Intn(m.Width)
		for y := 0; y < m.Height; y++ {
			if elements.InCategory(m.TerrainAt(x, y), elements.CategorySea) {
				continue
			}
			if err := m.SetTerrain(x, y, elements.River, elements.Neutral); err != nil {
				return err
			}
		}
	}
	return nil
}

var neutralProperties = []int{elements.City, elements.City, elements.City, elements.Base, elements.Airport, elements.Tower}

func (g *Generator) placeCities(m *awmap.Map) error {
	if g.config.CityRatio == 0 {
		return nil
	}
	want := m.Area() / g.config.CityRatio
	placed := 0

	// Use a maximum attempt counter to avoid infinite loops
	maxAttempts := want * 10
	for attempts := 0; placed < want && attempts < maxAttempts; attempts++ {
		x, y := g.rng.Intn(m.Width), g.rng.Intn(m.Height)
		if m.TerrainAt(x, y) != elements.Plain {
			continue
		}
		p := neutralProperties[g.rng.Intn(len(neutralProperties))]
		if err := m.SetTerrain(x, y, p, elements.Neutral); err != nil {
			return err
		}
		placed++
	}
	return nil
}

func (g *Generator) placeHQs(m *awmap.Map) ([]HQPlacement, error) {
	placements := make([]HQPlacement, 0, g.config.PlayerCount)

	for i := 0; i < g.config.PlayerCount; i++ {
		country := elements.OrangeStar + i
		p, err := g.findHQLocation(m, placements)
		if err != nil {
			return nil, err
		}
		p.Country = country
		if err := m.SetTerrain(p.X, p.Y, elements.HQ, country); err != nil {
			return nil, err
		}
		// A base next to the HQ when there is room, so the country is playable.
		for _, n := range common.NewCoordinate(p.X, p.Y).Neighbors() {
			if m.TerrainAt(n.X, n.Y) == elements.Plain {
				if err := m.SetTerrain(n.X, n.Y, elements.Base, country); err != nil {
					return nil, err
				}
				break
			}
		}
		placements = append(placements, p)
	}
	return placements, nil
}

func (g *Generator) findHQLocation(m *awmap.Map, existing []HQPlacement) (HQPlacement, error) {
	ok := func(x, y int) bool {
		if !elements.InCategory(m.TerrainAt(x, y), elements.CategoryLand) || elements.IsProperty(m.TerrainAt(x, y)) {
			return false
		}
		for _, other := range existing {
			if common.ManhattanDistance(x, y, other.X, other.Y) < g.config.MinHQSpacing {
				return false
			}
		}
		return true
	}

	maxAttempts := m.Area()
	for attempts := 0; attempts < maxAttempts; attempts++ {
		x, y := g.rng.Intn(m.Width), g.rng.Intn(m.Height)
		if ok(x, y) {
			return HQPlacement{X: x, Y: y}, nil
		}
	}

	// Fallback: scan in row-major order
	for i := 0; i < m.Area(); i++ {
		x, y := m.XY(i)
		if ok(x, y) {
			return HQPlacement{X: x, Y: y}, nil
		}
	}
	return HQPlacement{}, fmt.Errorf("unable to place HQ %d: no valid locations", len(existing)+1)
}

// placeRoads links each HQ to the next with an L-shaped road. Rivers become
// bridges; sea, properties and the HQs themselves are left alone.
func (g *Generator) placeRoads(m *awmap.Map, hqs []HQPlacement) error {
	lay := func(x, y int) error {
		switch t := m.TerrainAt(x, y); {
		case t == elements.River:
			return m.SetTerrain(x, y, elements.Bridge, elements.Neutral)
		case t == elements.Plain || t == elements.Wood || t == elements.Mountain:
			return m.SetTerrain(x, y, elements.Road, elements.Neutral)
		}
		return nil
	}
	for i := 1; i < len(hqs); i++ {
		from, to := hqs[i-1], hqs[i]
		stepX := 1
		if to.X < from.X {
			stepX = -1
		}
		for x := from.X; x != to.X; x += stepX {
			if err := lay(x, from.Y); err != nil {
				return err
			}
		}
		stepY := 1
		if to.Y < from.Y {
			stepY = -1
		}
		for y := from.Y; y != to.Y+stepY; y += stepY {
			if err := lay(to.X, y); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) placeUnits(m *awmap.Map, hqs []HQPlacement) error {
	for _, hq := range hqs {
		for _, n := range common.NewCoordinate(hq.X, hq.Y).Neighbors() {
			tile, ok := m.Tile(n.X, n.Y)
			if !ok || tile.HasUnit() || !elements.InCategory(tile.Terrain, elements.CategoryLand) {
				continue
			}
			if err := m.SetUnit(n.X, n.Y, elements.Infantry, hq.Country); err != nil {
				return err
			}
			break
		}
	}
	return nil
}
