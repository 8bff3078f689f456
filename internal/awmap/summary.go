package awmap

import (
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

// CountrySummary counts what one country owns on a map.
type CountrySummary struct {
	Country    int            `json:"country" yaml:"country"`
	Name       string         `json:"name" yaml:"name"`
	Playable   bool           `json:"playable" yaml:"playable"`
	Properties map[string]int `json:"properties,omitempty" yaml:"properties,omitempty"`
	Units      map[string]int `json:"units,omitempty" yaml:"units,omitempty"`
}

// Summary describes a map without its grid.
type Summary struct {
	Title       string           `json:"title" yaml:"title"`
	Author      string           `json:"author" yaml:"author"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Width       int              `json:"width" yaml:"width"`
	Height      int              `json:"height" yaml:"height"`
	AWBWID      int              `json:"awbw_id,omitempty" yaml:"awbw_id,omitempty"`
	PlayerCount int              `json:"player_count,omitempty" yaml:"player_count,omitempty"`
	Playable    []string         `json:"playable" yaml:"playable"`
	Countries   []CountrySummary `json:"countries" yaml:"countries"`
}

// Summary derives a Summary from the current grid. Countries that own nothing
// are left out; neutral properties are reported under Neutral.
func (m *Map) Summary() Summary {
	s := Summary{
		Title:       m.Title,
		Author:      m.Author,
		Description: m.Description,
		Width:       m.Width,
		Height:      m.Height,
		AWBWID:      m.AWBWID,
		PlayerCount: m.PlayerCount,
		Playable:    []string{},
	}
	for _, c := range m.PlayableCountries() {
		s.Playable = append(s.Playable, elements.CountryName(c))
	}

	for c := elements.Neutral; c <= elements.NumCountries; c++ {
		props := m.OwnedProps(c)
		units := m.DeployedUnits(c)
		if len(props) == 0 && len(units) == 0 {
			continue
		}
		cs := CountrySummary{
			Country:  c,
			Name:     elements.CountryName(c),
			Playable: m.IsPlayable(c),
		}
		if len(props) > 0 {
			cs.Properties = make(map[string]int)
			for _, t := range props {
				cs.Properties[elements.TerrainName(t.Terrain)]++
			}
		}
		if len(units) > 0 {
			cs.Units = make(map[string]int)
			for _, t := range units {
				cs.Units[elements.UnitName(t.Unit)]++
			}
		}
		s.Countries = append(s.Countries, cs)
	}
	return s
}
