package minimap

import (
	"fmt"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

// Sprites are 4x4. A mask is read row-major with the least significant bit
// at the top-left pixel: bit y*4+x.
const (
	SpriteSize = 4
	FrameCount = 8
)

// Common masks.
const (
	maskFull     uint16 = 0xFFFF
	maskNone     uint16 = 0x0000
	maskCenter   uint16 = 0x0660
	maskRing     uint16 = 0xF99F
	maskCross    uint16 = 0x6FF6
	maskChecker  uint16 = 0xA5A5
	maskHBand    uint16 = 0x0FF0
	maskPeak     uint16 = 0xFF60
	maskTreeTops uint16 = 0x5A5A
)

// Layer is one mask/colour pair. Static layers hold a single entry; animated
// layers hold one entry per frame.
type Layer struct {
	Masks  []uint16
	Colors []string
}

// Static returns a layer that looks the same on every frame.
func Static(mask uint16, colorName string) Layer {
	return Layer{Masks: []uint16{mask}, Colors: []string{colorName}}
}

// Animated returns a layer that cycles through eight frames.
func Animated(masks [FrameCount]uint16, colors [FrameCount]string) Layer {
	return Layer{Masks: masks[:], Colors: colors[:]}
}

func (l Layer) IsAnimated() bool { return len(l.Masks) > 1 }

// Frame returns the mask and colour shown on frame i.
func (l Layer) Frame(i int) (uint16, string) {
	if !l.IsAnimated() {
		return l.Masks[0], l.Colors[0]
	}
	i %= len(l.Masks)
	return l.Masks[i], l.Colors[i]
}

// Sprite is an ordered stack of layers, painted first to last.
type Sprite struct {
	Name   string
	Layers []Layer
}

func (s Sprite) IsAnimated() bool {
	for _, l := range s.Layers {
		if l.IsAnimated() {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Sprite bitmaps
// -----------------------------------------------------------------------------

var sprites = map[string]Sprite{}

func addSprite(name string, layers ...Layer) {
	sprites[name] = Sprite{Name: name, Layers: layers}
}

// Lookup keys: terrain + country*10 and unit + country*100.
var (
	terrainIndex = map[int]string{}
	unitIndex    = map[int]string{}
)

// TerrainKey is the sprite index key for terrain t owned by c.
func TerrainKey(t, c int) int { return t + c*10 }

// UnitKey is the sprite index key for unit u owned by c.
func UnitKey(u, c int) int { return u + c*100 }

func init() {
	addSprite("plain", Static(maskFull, "plain"))
	addSprite("wood", Static(maskFull, "plain"), Static(maskTreeTops, "wood"))
	addSprite("mountain", Static(maskFull, "plain"), Static(maskPeak, "mountain"))
	addSprite("road", Static(maskFull, "plain"), Static(maskCross, "road"))
	addSprite("bridge", Static(maskFull, "river"), Static(maskHBand, "road"))
	addSprite("sea", Static(maskFull, "sea"))
	addSprite("shoal", Static(maskFull, "shoal"))
	addSprite("reef", Static(maskFull, "sea"), Static(maskChecker, "reef"))
	addSprite("river", Static(maskFull, "plain"), Static(maskCross, "river"))
	addSprite("pipe", Static(maskFull, "plain"), Static(maskCross, "pipe"))
	addSprite("seam", Static(maskFull, "pipe"), Static(maskCenter, "seam"))
	addSprite("brokenseam", Static(maskFull, "plain"), Static(maskChecker, "pipe"))
	addSprite("silo", Static(maskFull, "plain"), Static(maskCenter, "silo"))
	addSprite("siloempty", Static(maskFull, "plain"), Static(maskCenter, "siloempty"))
	addSprite("ruins", Static(maskFull, "plain"), Static(maskChecker, "ruins"))
	addSprite("structure", Static(maskFull, "structure"), Static(maskCenter, "black"))
	addSprite("tele", Static(maskFull, "tele"))

	natural := map[int]string{
		elements.Plain:      "plain",
		elements.Mountain:   "mountain",
		elements.Wood:       "wood",
		elements.Road:       "road",
		elements.Bridge:     "bridge",
		elements.Sea:        "sea",
		elements.Shoal:      "shoal",
		elements.Reef:       "reef",
		elements.River:      "river",
		elements.Pipe:       "pipe",
		elements.Seam:       "seam",
		elements.BrokenSeam: "brokenseam",
		elements.Silo:       "silo",
		elements.EmptySilo:  "siloempty",
		elements.Ruins:      "ruins",
		elements.NullTile:   "tele",
	}
	for t, name := range natural {
		terrainIndex[TerrainKey(t, elements.Neutral)] = name
	}
	for t := elements.Volcano; t <= elements.BlackCrystal; t++ {
		terrainIndex[TerrainKey(t, elements.Neutral)] = "structure"
	}

	for c := elements.Neutral; c <= elements.NumCountries; c++ {
		code := countryCode(c)
		prop, hq, unit := code+"prop", code+"hq", code+"unit"

		addSprite(prop, Static(maskFull, code), Static(maskCenter, "white"))
		// The outer ring flashes white while units are hidden.
		addSprite(hq,
			Static(maskFull, code),
			Animated(
				[FrameCount]uint16{maskRing, maskRing, maskRing, maskRing, maskRing, maskRing, maskRing, maskRing},
				[FrameCount]string{"white", "white", code, code, code, code, "white", "white"},
			),
		)
		for _, p := range elements.Properties {
			name := prop
			if elements.IsHeadquarters(p) {
				name = hq
			}
			terrainIndex[TerrainKey(p, c)] = name
		}

		if c == elements.Neutral {
			continue
		}
		// Units show on frames 2..5 only.
		addSprite(unit, Animated(
			[FrameCount]uint16{maskNone, maskNone, maskCenter, maskCenter, maskCenter, maskCenter, maskNone, maskNone},
			[FrameCount]string{unit, unit, unit, unit, unit, unit, unit, unit},
		))
		for _, u := range elements.Units {
			unitIndex[UnitKey(u, c)] = unit
		}
	}

	for name, s := range sprites {
		for _, l := range s.Layers {
			for _, cn := range l.Colors {
				if _, ok := palette[cn]; !ok {
					panic(fmt.Sprintf("minimap: sprite %s uses unknown colour %q", name, cn))
				}
			}
		}
	}
}

// LookupSprite returns the named sprite.
func LookupSprite(name string) (Sprite, bool) {
	s, ok := sprites[name]
	return s, ok
}

// TerrainSprite returns the sprite name for terrain t owned by c. Unknown
// terrain is drawn as plain.
func TerrainSprite(t, c int) string {
	if name, ok := terrainIndex[TerrainKey(t, c)]; ok {
		return name
	}
	return "plain"
}

// UnitSprite returns the sprite name for unit u owned by c, or "" for none.
func UnitSprite(u, c int) string {
	if u == elements.NoUnit {
		return ""
	}
	return unitIndex[UnitKey(u, c)]
}
