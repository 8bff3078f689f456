package elements

import "strings"

// Country IDs. 0 is neutral; 1..18 are the factions in canonical order.
const (
	Neutral = iota
	OrangeStar
	BlueMoon
	GreenEarth
	YellowComet
	BlackHole
	RedFire
	GreySky
	BrownDesert
	AmberBlaze
	JadeSun
	CobaltIce
	PinkCosmos
	TealGalaxy
	PurpleLightning
	AcidRain
	WhiteNova
	AzureAsteroid
	NoirEclipse

	NumCountries = NoirEclipse
)

// Country describes one entry of the country table.
type Country struct {
	ID   int
	Name string
	// AWBW is the two-letter code used by the AWBW site.
	AWBW string
}

var countries = [...]Country{
	{Neutral, "Neutral", ""},
	{OrangeStar, "Orange Star", "os"},
	{BlueMoon, "Blue Moon", "bm"},
	{GreenEarth, "Green Earth", "ge"},
	{YellowComet, "Yellow Comet", "yc"},
	{BlackHole, "Black Hole", "bh"},
	{RedFire, "Red Fire", "rf"},
	{GreySky, "Grey Sky", "gs"},
	{BrownDesert, "Brown Desert", "bd"},
	{AmberBlaze, "Amber Blaze", "ab"},
	{JadeSun, "Jade Sun", "js"},
	{CobaltIce, "Cobalt Ice", "ci"},
	{PinkCosmos, "Pink Cosmos", "pc"},
	{TealGalaxy, "Teal Galaxy", "tg"},
	{PurpleLightning, "Purple Lightning", "pl"},
	{AcidRain, "Acid Rain", "ar"},
	{WhiteNova, "White Nova", "wn"},
	{AzureAsteroid, "Azure Asteroid", "aa"},
	{NoirEclipse, "Noir Eclipse", "ne"},
}

var countryByAWBW = func() map[string]int {
	m := make(map[string]int, len(countries))
	for _, c := range countries[1:] {
		m[c.AWBW] = c.ID
	}
	return m
}()

// IsValidCountry reports whether c is 0..18.
func IsValidCountry(c int) bool { return c >= Neutral && c <= NumCountries }

// IsPlayerCountry reports whether c is one of the 18 factions.
func IsPlayerCountry(c int) bool { return c > Neutral && c <= NumCountries }

// CountryInfo returns the table entry for c, or the neutral entry when c is out of range.
func CountryInfo(c int) Country {
	if !IsValidCountry(c) {
		return countries[Neutral]
	}
	return countries[c]
}

// CountryName returns the display name for c.
func CountryName(c int) string { return CountryInfo(c).Name }

// CountryByAWBWCode translates a two-letter AWBW code (case-insensitive).
func CountryByAWBWCode(code string) (int, bool) {
	c, ok := countryByAWBW[strings.ToLower(strings.TrimSpace(code))]
	return c, ok
}

// AWSCountry reduces a canonical country to the five player countries the
// AWS editor knows about: ((c-1) mod 5) + 1. Neutral stays neutral.
func AWSCountry(c int) int {
	if !IsPlayerCountry(c) {
		return Neutral
	}
	return ((c - 1) % awsPlayerCountries) + 1
}

const awsPlayerCountries = 5
