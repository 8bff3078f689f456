package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryTable(t *testing.T) {
	assert.Equal(t, "Neutral", CountryName(Neutral))
	assert.Equal(t, "Orange Star", CountryName(OrangeStar))
	assert.Equal(t, "Noir Eclipse", CountryName(NoirEclipse))
	assert.Equal(t, "Neutral", CountryName(42))

	tests := []struct {
		code     string
		expected int
	}{
		{"os", OrangeStar},
		{"BM", BlueMoon},
		{" ge ", GreenEarth},
		{"bh", BlackHole},
		{"ne", NoirEclipse},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, ok := CountryByAWBWCode(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.expected, c)
		})
	}

	_, ok := CountryByAWBWCode("zz")
	assert.False(t, ok)
	_, ok = CountryByAWBWCode("")
	assert.False(t, ok, "neutral has no AWBW code")
}

func TestAWSCountryReduction(t *testing.T) {
	assert.Equal(t, Neutral, AWSCountry(Neutral))
	for c := OrangeStar; c <= BlackHole; c++ {
		assert.Equal(t, c, AWSCountry(c), "original five map to themselves")
	}
	assert.Equal(t, OrangeStar, AWSCountry(RedFire))
	assert.Equal(t, BlueMoon, AWSCountry(GreySky))
	assert.Equal(t, BlackHole, AWSCountry(JadeSun))
	assert.Equal(t, BlackHole, AWSCountry(AcidRain))
	assert.Equal(t, BlueMoon, AWSCountry(AzureAsteroid))
	assert.Equal(t, GreenEarth, AWSCountry(NoirEclipse))
}

func TestTerrainCategories(t *testing.T) {
	assert.True(t, InCategory(Plain, CategoryLand))
	assert.True(t, InCategory(City, CategoryLand), "properties are land")
	assert.True(t, InCategory(City, CategoryProperties))
	assert.True(t, InCategory(Sea, CategorySea))
	assert.False(t, InCategory(Sea, CategoryLand))
	assert.False(t, InCategory(River, CategoryLand))
	assert.False(t, InCategory(Shoal, CategorySea))
	assert.False(t, InCategory(77, CategoryLand))

	for _, p := range TerrainsIn(CategoryProperties) {
		assert.True(t, InCategory(p, CategoryLand), "property %d must be land", p)
	}
	assert.Len(t, TerrainsIn(CategoryProperties), 7)
}

func TestUnitTable(t *testing.T) {
	assert.True(t, IsValidUnit(NoUnit))
	for _, u := range Units {
		assert.True(t, IsValidUnit(u))
		assert.NotEqual(t, "Unknown", UnitName(u))
	}
	assert.False(t, IsValidUnit(3))
	assert.False(t, IsValidUnit(47))
	assert.Len(t, Units, 26)
}

func TestAWSTerrainTables(t *testing.T) {
	t.Run("plain is code zero", func(t *testing.T) {
		assert.Equal(t, uint16(0), AWSTerrainCode(Plain, Neutral))
		assert.Equal(t, Owned{Plain, Neutral}, AWSTerrain(0))
	})

	t.Run("overrides", func(t *testing.T) {
		assert.Equal(t, AWSTerrainCode(Silo, Neutral), AWSTerrainCode(EmptySilo, Neutral))
		assert.Equal(t, AWSTerrainCode(BrokenSeam, Neutral), AWSTerrainCode(Ruins, Neutral))
		assert.Equal(t, AWSTerrainCode(City, Neutral), AWSTerrainCode(HQ, Neutral))
		assert.Equal(t, AWSTerrainCode(MiniCannonSouth, Neutral), AWSTerrainCode(NullTile, Neutral))
	})

	t.Run("unknown code decodes as plain", func(t *testing.T) {
		assert.Equal(t, Owned{Plain, Neutral}, AWSTerrain(4242))
		assert.Equal(t, AWSPlain, AWSTerrainCode(77, Neutral))
	})

	t.Run("every registered code round trips to its first code", func(t *testing.T) {
		for code, owner := range awsTerrainLookup {
			first := AWSTerrainCode(owner.ID, owner.Country)
			assert.Equal(t, owner, AWSTerrain(first), "code %d", code)
		}
	})

	t.Run("extended countries reduce", func(t *testing.T) {
		assert.Equal(t, AWSTerrainCode(City, OrangeStar), AWSTerrainCode(City, RedFire))
		assert.Equal(t, Owned{City, OrangeStar}, AWSTerrain(AWSTerrainCode(City, RedFire)))
	})

	t.Run("non-property terrain ignores the country", func(t *testing.T) {
		assert.Equal(t, AWSTerrainCode(Wood, Neutral), AWSTerrainCode(Wood, BlueMoon))
	})

	t.Run("multi-tile structures share one canonical id", func(t *testing.T) {
		codes := AWSTerrainCodes(Volcano, Neutral)
		require.Len(t, codes, 9)
		for _, code := range codes {
			assert.Equal(t, Owned{Volcano, Neutral}, AWSTerrain(code))
		}
	})
}

func TestAWSUnitTables(t *testing.T) {
	assert.Equal(t, AWSNoUnit, AWSUnitCode(NoUnit, Neutral))
	assert.Equal(t, Owned{NoUnit, Neutral}, AWSUnit(AWSNoUnit))
	assert.Equal(t, AWSNoUnit, AWSUnitCode(Infantry, Neutral), "neutral units do not exist")

	for c := OrangeStar; c <= BlackHole; c++ {
		for _, u := range Units {
			code := AWSUnitCode(u, c)
			require.NotEqual(t, AWSNoUnit, code)
			assert.Equal(t, Owned{u, c}, AWSUnit(code))
		}
	}
	assert.Equal(t, Owned{Tank, BlueMoon}, AWSUnit(AWSUnitCode(Tank, GreySky)))
}

func TestAWBWTerrainTables(t *testing.T) {
	t.Run("road variants", func(t *testing.T) {
		codes := AWBWTerrainCodes(Road, Neutral)
		require.Len(t, codes, 11)
		assert.Equal(t, 15, codes[0])
		owner, idx := AWBWTerrain(17)
		assert.Equal(t, Owned{Road, Neutral}, owner)
		assert.Equal(t, 2, idx)
	})

	t.Run("blank cell is the null tile", func(t *testing.T) {
		owner, idx := AWBWTerrain(AWBWBlank)
		assert.Equal(t, Owned{NullTile, Neutral}, owner)
		assert.Equal(t, 0, idx)
		owner, idx = AWBWTerrain(AWBWTeleporter)
		assert.Equal(t, Owned{NullTile, Neutral}, owner)
		assert.Equal(t, 1, idx)
	})

	t.Run("properties", func(t *testing.T) {
		assert.Equal(t, []int{34}, AWBWTerrainCodes(City, Neutral))
		assert.Equal(t, []int{42}, AWBWTerrainCodes(HQ, OrangeStar))
		assert.Equal(t, []int{34}, AWBWTerrainCodes(HQ, Neutral), "neutral HQ falls back to a city")
		owner, _ := AWBWTerrain(153)
		assert.Equal(t, Owned{HQ, CobaltIce}, owner)
		owner, _ = AWBWTerrain(205)
		assert.Equal(t, Owned{City, NoirEclipse}, owner)
	})

	t.Run("every property has a code", func(t *testing.T) {
		for c := OrangeStar; c <= NoirEclipse; c++ {
			for _, p := range Properties {
				codes := AWBWTerrainCodes(p, c)
				require.Len(t, codes, 1, "country %d property %d", c, p)
				owner, _ := AWBWTerrain(codes[0])
				assert.Equal(t, Owned{p, c}, owner)
			}
		}
	})

	t.Run("no code is registered twice", func(t *testing.T) {
		seen := map[int]Owned{}
		for owner, codes := range awbwTerrainCodes {
			for _, code := range codes {
				prev, dup := seen[code]
				assert.False(t, dup, "code %d used by %v and %v", code, prev, owner)
				seen[code] = owner
			}
		}
	})

	t.Run("structures have no AWBW tile", func(t *testing.T) {
		assert.Nil(t, AWBWTerrainCodes(Volcano, Neutral))
	})

	t.Run("unknown code decodes as plain", func(t *testing.T) {
		owner, _ := AWBWTerrain(9999)
		assert.Equal(t, Owned{Plain, Neutral}, owner)
	})
}

func TestAWBWUnits(t *testing.T) {
	assert.Len(t, awbwUnits, 25)
	assert.Equal(t, Infantry, AWBWUnit(1))
	assert.Equal(t, Megatank, AWBWUnit(1141438))
	assert.Equal(t, NoUnit, AWBWUnit(99))

	for id, u := range awbwUnits {
		back, ok := AWBWUnitID(u)
		require.True(t, ok)
		assert.Equal(t, id, back)
	}
	_, ok := AWBWUnitID(Oozium)
	assert.False(t, ok)
}

func TestAwarenessTablesAreTotal(t *testing.T) {
	for _, terrain := range DirectionalTerrains() {
		tbl, ok := Awareness(terrain)
		require.True(t, ok, "terrain %d", terrain)
		k := VariantCount(terrain)
		require.Greater(t, k, 0)
		for mask, offset := range tbl {
			assert.GreaterOrEqual(t, offset, 0, "terrain %d mask %d", terrain, mask)
			assert.Less(t, offset, k, "terrain %d mask %d", terrain, mask)
		}
		assert.NotNil(t, AwarenessSet(terrain))
	}

	_, ok := Awareness(Plain)
	assert.False(t, ok)
	assert.Nil(t, AwarenessSet(Plain))
}

func TestAwarenessSets(t *testing.T) {
	road := AwarenessSet(Road)
	assert.True(t, road[Road])
	assert.True(t, road[Bridge])
	assert.True(t, road[HQ])
	assert.True(t, road[EmptySilo])
	assert.False(t, road[Plain])

	river := AwarenessSet(River)
	assert.Len(t, river, 2)

	shoal := AwarenessSet(Shoal)
	assert.True(t, shoal[River])
	assert.True(t, shoal[Plain])
	assert.False(t, shoal[Sea])

	assert.True(t, AwarenessSet(Bridge)[Shoal])
	assert.True(t, AwarenessSet(Seam)[BrokenSeam])
}

func TestLineTable(t *testing.T) {
	tests := []struct {
		name   string
		mask   int
		offset int
	}{
		{"isolated", 0, 0},
		{"east only", MaskEast, 0},
		{"west only", MaskWest, 0},
		{"east and west", MaskEast | MaskWest, 0},
		{"north and south", MaskNorth | MaskSouth, 1},
		{"all four", MaskNorth | MaskEast | MaskSouth | MaskWest, 2},
		{"east south corner", MaskEast | MaskSouth, 3},
		{"north east corner", MaskNorth | MaskEast, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, _ := Awareness(Road)
			assert.Equal(t, tt.offset, tbl[tt.mask])
		})
	}
}
