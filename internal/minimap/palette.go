package minimap

import (
	"image/color"
	"sort"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

// -----------------------------------------------------------------------------
// Colour definitions
// -----------------------------------------------------------------------------

var terrainColors = map[string]color.RGBA{
	"plain":     {168, 240, 96, 255},
	"wood":      {40, 144, 48, 255},
	"mountain":  {160, 112, 64, 255},
	"road":      {184, 184, 168, 255},
	"sea":       {56, 104, 224, 255},
	"shoal":     {232, 216, 136, 255},
	"reef":      {120, 80, 64, 255},
	"river":     {96, 168, 248, 255},
	"pipe":      {112, 120, 136, 255},
	"seam":      {200, 208, 216, 255},
	"silo":      {216, 64, 64, 255},
	"siloempty": {120, 104, 104, 255},
	"ruins":     {136, 128, 120, 255},
	"structure": {72, 72, 88, 255},
	"tele":      {240, 112, 248, 255},
	"black":     {0, 0, 0, 255},
	"white":     {255, 255, 255, 255},
}

// neutralCode names neutral in sprite and palette names.
const neutralCode = "nt"

var countryColors = map[int]color.RGBA{
	elements.Neutral:         {192, 192, 192, 255},
	elements.OrangeStar:      {248, 88, 0, 255},
	elements.BlueMoon:        {56, 104, 248, 255},
	elements.GreenEarth:      {48, 176, 48, 255},
	elements.YellowComet:     {240, 200, 0, 255},
	elements.BlackHole:       {96, 64, 128, 255},
	elements.RedFire:         {176, 24, 24, 255},
	elements.GreySky:         {104, 120, 104, 255},
	elements.BrownDesert:     {152, 104, 56, 255},
	elements.AmberBlaze:      {248, 168, 32, 255},
	elements.JadeSun:         {136, 200, 120, 255},
	elements.CobaltIce:       {120, 200, 248, 255},
	elements.PinkCosmos:      {248, 136, 200, 255},
	elements.TealGalaxy:      {56, 176, 168, 255},
	elements.PurpleLightning: {136, 72, 200, 255},
	elements.AcidRain:        {160, 176, 40, 255},
	elements.WhiteNova:       {224, 224, 240, 255},
	elements.AzureAsteroid:   {40, 64, 160, 255},
	elements.NoirEclipse:     {40, 40, 40, 255},
}

// -----------------------------------------------------------------------------
// Palette
// -----------------------------------------------------------------------------

// palette is every named colour; it is never changed after load.
var palette = buildPalette()

// paletteNames is palette's keys, sorted.
var paletteNames = sortedNames(palette)

func buildPalette() map[string]color.RGBA {
	p := make(map[string]color.RGBA, len(terrainColors)+2*len(countryColors))
	for name, c := range terrainColors {
		p[name] = c
	}
	for country, c := range countryColors {
		code := countryCode(country)
		p[code] = c
		p[code+"unit"] = darken(c)
	}
	return p
}

func sortedNames(p map[string]color.RGBA) []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// countryCode is the sprite prefix for a country: its AWBW code, or "nt".
func countryCode(c int) string {
	if code := elements.CountryInfo(c).AWBW; code != "" {
		return code
	}
	return neutralCode
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 5 * 3, G: c.G / 5 * 3, B: c.B / 5 * 3, A: 255}
}

// Color returns the named palette colour.
func Color(name string) (color.RGBA, bool) {
	c, ok := palette[name]
	return c, ok
}

// PaletteNames returns the palette's colour names in sorted order.
func PaletteNames() []string {
	out := make([]string, len(paletteNames))
	copy(out, paletteNames)
	return out
}

// gifPalette lists the palette colours in name order, without duplicates.
func gifPalette() color.Palette {
	seen := map[color.RGBA]bool{}
	var p color.Palette
	for _, name := range paletteNames {
		c := palette[name]
		if seen[c] {
			continue
		}
		seen[c] = true
		p = append(p, c)
	}
	return p
}
