package aws

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

func plainMap(t *testing.T, w, h int) *awmap.Map {
	t.Helper()
	m, err := awmap.New(w, h)
	require.NoError(t, err)
	m.Title, m.Author, m.Description = "t", "a", "d"
	return m
}

func TestEncode_TrivialMap(t *testing.T) {
	data, err := Encode(plainMap(t, 2, 2))
	require.NoError(t, err)

	expected := []byte{
		0x41, 0x57, 0x53, 0x4D, 0x61, 0x70, 0x30, 0x30, 0x31, 0x00,
		0x02, 0x02, 0x05,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0x01, 0x00, 0x00, 0x00, 0x74,
		0x01, 0x00, 0x00, 0x00, 0x61,
		0x01, 0x00, 0x00, 0x00, 0x64,
	}
	assert.Equal(t, expected, data)
	assert.True(t, IsAWS(data))

	m, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Width)
	assert.Equal(t, "t", m.Title)
	assert.Equal(t, "a", m.Author)
	assert.Equal(t, "d", m.Description)
	assert.Equal(t, uint8(5), m.Style)
	assert.False(t, m.OverrideAwareness)
}

func TestColumnMajorStreams(t *testing.T) {
	m := plainMap(t, 3, 2)
	require.NoError(t, m.SetTerrain(1, 0, elements.Mountain, elements.Neutral))
	require.NoError(t, m.SetUnit(2, 1, elements.Tank, elements.BlueMoon))

	data, err := Encode(m)
	require.NoError(t, err)

	terrainAt := func(x, y int) uint16 {
		return binary.LittleEndian.Uint16(data[headerSize+2*(y+x*2):])
	}
	unitAt := func(x, y int) uint16 {
		return binary.LittleEndian.Uint16(data[headerSize+12+2*(y+x*2):])
	}
	assert.Equal(t, uint16(60), terrainAt(1, 0))
	assert.Equal(t, uint16(0), terrainAt(0, 1))
	assert.Equal(t, elements.AWSUnitCode(elements.Tank, elements.BlueMoon), unitAt(2, 1))
	assert.Equal(t, elements.AWSNoUnit, unitAt(1, 0))

	back, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, awmap.Equivalent(m, back))
	tile, _ := back.Tile(1, 0)
	assert.Equal(t, elements.Mountain, tile.Terrain)
}

func TestRoundTrip(t *testing.T) {
	m := plainMap(t, 4, 3)
	m.Style = 2
	m.Title = "Café Island"
	require.NoError(t, m.SetTerrain(0, 0, elements.HQ, elements.OrangeStar))
	require.NoError(t, m.SetTerrain(3, 2, elements.HQ, elements.BlackHole))
	require.NoError(t, m.SetTerrain(1, 1, elements.Road, elements.Neutral))
	require.NoError(t, m.SetTerrain(2, 1, elements.Seaport, elements.Neutral))
	require.NoError(t, m.SetTerrain(0, 2, elements.Sea, elements.Neutral))
	require.NoError(t, m.SetUnit(1, 0, elements.Infantry, elements.OrangeStar))
	require.NoError(t, m.SetUnit(2, 2, elements.Battleship, elements.BlackHole))

	data, err := Encode(m)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)

	assert.True(t, awmap.Equivalent(m, back))
	assert.Equal(t, "Café Island", back.Title)
	assert.Equal(t, uint8(2), back.Style)

	again, err := Encode(back)
	require.NoError(t, err)
	assert.Equal(t, data, again, "encode(decode(b)) == b")
}

func TestEncode_Reductions(t *testing.T) {
	m := plainMap(t, 3, 1)
	require.NoError(t, m.SetTerrain(0, 0, elements.City, elements.RedFire))
	require.NoError(t, m.SetTerrain(1, 0, elements.EmptySilo, elements.Neutral))
	require.NoError(t, m.SetTerrain(2, 0, elements.NullTile, elements.Neutral))
	require.NoError(t, m.SetUnit(0, 0, elements.Mech, elements.NoirEclipse))

	data, err := Encode(m)
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)

	tile, _ := back.Tile(0, 0)
	assert.Equal(t, elements.City, tile.Terrain)
	assert.Equal(t, elements.OrangeStar, tile.TerrainCountry)
	assert.Equal(t, elements.Mech, tile.Unit)
	assert.Equal(t, elements.GreenEarth, tile.UnitCountry)

	assert.Equal(t, elements.Silo, back.TerrainAt(1, 0))
	assert.Equal(t, elements.MiniCannonSouth, back.TerrainAt(2, 0))
}

func TestEncode_NeutralHQBecomesCity(t *testing.T) {
	m := plainMap(t, 2, 1)
	require.NoError(t, m.SetTerrain(0, 0, elements.HQ, elements.Neutral))
	require.NoError(t, m.SetTerrain(1, 0, elements.HQ, elements.OrangeStar))

	data, err := Encode(m)
	require.NoError(t, err)
	assert.Equal(t, elements.AWSTerrainCode(elements.City, elements.Neutral),
		binary.LittleEndian.Uint16(data[headerSize:]))

	back, err := Decode(data)
	require.NoError(t, err)
	tile, _ := back.Tile(0, 0)
	assert.Equal(t, elements.City, tile.Terrain)
	assert.Equal(t, elements.Neutral, tile.TerrainCountry)
	tile, _ = back.Tile(1, 0)
	assert.Equal(t, elements.HQ, tile.Terrain)
	assert.Equal(t, elements.OrangeStar, tile.TerrainCountry)
}

func TestEncode_Limits(t *testing.T) {
	m, err := awmap.New(256, 1)
	require.NoError(t, err)
	_, err = Encode(m)
	assert.ErrorIs(t, err, awmap.ErrDimensionMismatch)
}

func TestDecode_Errors(t *testing.T) {
	valid, err := Encode(plainMap(t, 2, 2))
	require.NoError(t, err)

	zeroWidth := append([]byte(nil), valid...)
	zeroWidth[10] = 0

	overrun := append([]byte(nil), valid...)
	// title length lives right after both streams
	binary.LittleEndian.PutUint32(overrun[headerSize+16:], 1000)

	hugeLength := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(hugeLength[headerSize+16:], 0xFFFFFFFF)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("AWSMap002\x00"), valid[10:]...)},
		{"header only", valid[:12]},
		{"zero width", zeroWidth},
		{"truncated terrain", valid[:headerSize+3]},
		{"truncated units", valid[:headerSize+10]},
		{"missing description", valid[:len(valid)-5]},
		{"truncated description", valid[:len(valid)-1]},
		{"string overrun", overrun},
		{"huge string length", hugeLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(tt.data)
			assert.ErrorIs(t, err, awmap.ErrBadFormat)
			assert.Nil(t, m)
		})
	}
}

func TestDecode_UnknownCodesDefault(t *testing.T) {
	data, err := Encode(plainMap(t, 1, 1))
	require.NoError(t, err)
	binary.LittleEndian.PutUint16(data[headerSize:], 4000)
	binary.LittleEndian.PutUint16(data[headerSize+2:], 7)

	m, err := Decode(data)
	require.NoError(t, err)
	tile, _ := m.Tile(0, 0)
	assert.Equal(t, elements.Plain, tile.Terrain)
	assert.False(t, tile.HasUnit())
}
