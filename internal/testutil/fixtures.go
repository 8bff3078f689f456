package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

// Placement puts a terrain or unit on one tile of a fixture.
type Placement struct {
	X, Y    int
	ID      int
	Country int
}

// NewMap builds a map from row-major terrain ids; every row must have the
// same length. All terrain is neutral.
func NewMap(t testing.TB, rows [][]int) *awmap.Map {
	t.Helper()
	require.NotEmpty(t, rows)
	m, err := awmap.New(len(rows[0]), len(rows))
	require.NoError(t, err)
	for y, row := range rows {
		require.Len(t, row, m.Width, "row %d", y)
		for x, terrain := range row {
			require.NoError(t, m.SetTerrain(x, y, terrain, elements.Neutral))
		}
	}
	return m
}

// Apply places owned terrain and units on m.
func Apply(t testing.TB, m *awmap.Map, terrain, units []Placement) *awmap.Map {
	t.Helper()
	for _, p := range terrain {
		require.NoError(t, m.SetTerrain(p.X, p.Y, p.ID, p.Country))
	}
	for _, p := range units {
		require.NoError(t, m.SetUnit(p.X, p.Y, p.ID, p.Country))
	}
	return m
}

// PlainMap is a w by h map of neutral plains.
func PlainMap(t testing.TB, w, h int) *awmap.Map {
	t.Helper()
	m, err := awmap.New(w, h)
	require.NoError(t, err)
	return m
}

// DuelMap is a small two-player map: Orange Star and Blue Moon each own an
// HQ, a base and an infantry, separated by a river crossed by a road.
func DuelMap(t testing.TB) *awmap.Map {
	t.Helper()
	P, R, V, B, W, M := elements.Plain, elements.Road, elements.River, elements.Bridge, elements.Wood, elements.Mountain
	m := NewMap(t, [][]int{
		{P, P, W, V, P, M, P},
		{P, R, R, B, R, R, P},
		{M, P, P, V, W, P, P},
	})
	m.Title = "Duel"
	m.Author = "fixtures"
	return Apply(t, m,
		[]Placement{
			{X: 0, Y: 1, ID: elements.HQ, Country: elements.OrangeStar},
			{X: 1, Y: 2, ID: elements.Base, Country: elements.OrangeStar},
			{X: 6, Y: 1, ID: elements.HQ, Country: elements.BlueMoon},
			{X: 5, Y: 2, ID: elements.Base, Country: elements.BlueMoon},
			{X: 4, Y: 0, ID: elements.City, Country: elements.Neutral},
		},
		[]Placement{
			{X: 1, Y: 0, ID: elements.Infantry, Country: elements.OrangeStar},
			{X: 6, Y: 0, ID: elements.Infantry, Country: elements.BlueMoon},
		},
	)
}

// AWBWResponse builds an AWBW map API body for a map with the given
// column-major terrain grid and units.
func AWBWResponse(t testing.TB, name string, columns [][]int, units []map[string]any) []byte {
	t.Helper()
	require.NotEmpty(t, columns)
	body := map[string]any{
		"Name":           name,
		"Author":         "fixtures",
		"Player Count":   2,
		"Published Date": "2021-03-04 05:06:07",
		"Size X":         len(columns),
		"Size Y":         len(columns[0]),
		"Terrain Map":    columns,
		"Predeployed Units": func() []map[string]any {
			if units == nil {
				return []map[string]any{}
			}
			return units
		}(),
	}
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return b
}
