package minimap

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

func newMap(t *testing.T, w, h int) *awmap.Map {
	t.Helper()
	m, err := awmap.New(w, h)
	require.NoError(t, err)
	return m
}

func mustColor(t *testing.T, name string) color.RGBA {
	t.Helper()
	c, ok := Color(name)
	require.True(t, ok, name)
	return c
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		w, h  int
		scale int
	}{
		{1, 1, 4},
		{40, 40, 4},
		{41, 40, 2},
		{80, 40, 2},
		{81, 40, 1},
		{100, 100, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.scale, ScaleFor(tt.w, tt.h), "%dx%d", tt.w, tt.h)
	}
}

func TestRender_StillIsPNG(t *testing.T) {
	m := newMap(t, 3, 2)
	require.NoError(t, m.SetTerrain(1, 0, elements.Sea, elements.Neutral))
	require.NoError(t, m.SetTerrain(2, 1, elements.City, elements.OrangeStar))

	img, err := Render(m)
	require.NoError(t, err)
	assert.Equal(t, PNG, img.Format)
	assert.Equal(t, "image/png", img.Format.MIME())
	assert.Equal(t, 1, img.Frames)
	assert.Equal(t, 4, img.Scale)
	assert.Equal(t, 3*4*4, img.Width)
	assert.Equal(t, 2*4*4, img.Height)
	assert.Equal(t, "map.png", img.Filename("map"))

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 48, 32), decoded.Bounds())

	assert.Equal(t, mustColor(t, "plain"), rgbaAt(decoded, 0, 0))
	// sea tile starts at x = 1 tile * 4 px * scale 4
	assert.Equal(t, mustColor(t, "sea"), rgbaAt(decoded, 16, 0))
	// city edge is the country colour, its centre white
	assert.Equal(t, mustColor(t, "os"), rgbaAt(decoded, 32, 16))
	assert.Equal(t, mustColor(t, "white"), rgbaAt(decoded, 32+6, 16+6))
}

func TestRender_HQIsAnimated(t *testing.T) {
	m := newMap(t, 2, 1)
	require.NoError(t, m.SetTerrain(0, 0, elements.HQ, elements.BlueMoon))

	img, err := Render(m)
	require.NoError(t, err)
	assert.Equal(t, GIF, img.Format)
	assert.Equal(t, FrameCount, img.Frames)

	anim, err := gif.DecodeAll(bytes.NewReader(img.Data))
	require.NoError(t, err)
	require.Len(t, anim.Image, FrameCount)
	assert.Equal(t, []int{15, 15, 15, 15, 15, 15, 15, 15}, anim.Delay)
	assert.Equal(t, 0, anim.LoopCount)

	white, bm := mustColor(t, "white"), mustColor(t, "bm")
	assert.Equal(t, white, rgbaAt(anim.Image[0], 0, 0), "ring flashes on frame 0")
	assert.Equal(t, bm, rgbaAt(anim.Image[3], 0, 0))
	assert.Equal(t, bm, rgbaAt(anim.Image[0], 6, 6), "centre never flashes")
	assert.Equal(t, mustColor(t, "plain"), rgbaAt(anim.Image[0], 16, 0))
}

func TestRender_LabIsAnimated(t *testing.T) {
	m := newMap(t, 1, 1)
	require.NoError(t, m.SetTerrain(0, 0, elements.Lab, elements.Neutral))
	img, err := Render(m)
	require.NoError(t, err)
	assert.Equal(t, GIF, img.Format)
}

func TestRender_UnitsBlink(t *testing.T) {
	m := newMap(t, 1, 1)
	require.NoError(t, m.SetUnit(0, 0, elements.Tank, elements.GreenEarth))

	frames, err := RenderFrames(m)
	require.NoError(t, err)
	require.True(t, frames.Animated())
	require.Len(t, frames.Images, FrameCount)

	plain, unit := mustColor(t, "plain"), mustColor(t, "geunit")
	centre := 1 * frames.Scale
	for i, f := range frames.Images {
		want := plain
		if i >= 2 && i <= 5 {
			want = unit
		}
		assert.Equal(t, want, f.RGBAAt(centre, centre), "frame %d", i)
		assert.Equal(t, plain, f.RGBAAt(0, 0), "frame %d corner", i)
	}
}

func TestRender_Deterministic(t *testing.T) {
	m := newMap(t, 6, 5)
	require.NoError(t, m.SetTerrain(0, 0, elements.HQ, elements.OrangeStar))
	require.NoError(t, m.SetTerrain(5, 4, elements.HQ, elements.BlueMoon))
	require.NoError(t, m.SetTerrain(2, 2, elements.Mountain, elements.Neutral))
	require.NoError(t, m.SetUnit(1, 1, elements.Infantry, elements.OrangeStar))

	a, err := Render(m)
	require.NoError(t, err)
	b, err := Render(m.Clone())
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)

	still := newMap(t, 6, 5)
	c, err := Render(still)
	require.NoError(t, err)
	d, err := Render(still)
	require.NoError(t, err)
	assert.Equal(t, c.Data, d.Data)
}

func TestRender_LargeMapsAreNotUpscaled(t *testing.T) {
	m := newMap(t, 90, 40)
	img, err := Render(m)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Scale)
	assert.Equal(t, 360, img.Width)
	assert.Equal(t, 160, img.Height)
}

func TestRenderFrames_NilMap(t *testing.T) {
	_, err := RenderFrames(nil)
	assert.ErrorIs(t, err, awmap.ErrRenderFailure)
}

func TestEveryTerrainHasASprite(t *testing.T) {
	for t2 := 0; t2 <= elements.NullTile; t2++ {
		if !elements.IsValidTerrain(t2) {
			continue
		}
		countries := []int{elements.Neutral}
		if elements.IsProperty(t2) {
			countries = nil
			for c := elements.Neutral; c <= elements.NumCountries; c++ {
				countries = append(countries, c)
			}
		}
		for _, c := range countries {
			_, ok := terrainIndex[TerrainKey(t2, c)]
			assert.True(t, ok, "terrain %d country %d", t2, c)
		}
	}

	for c := elements.OrangeStar; c <= elements.NumCountries; c++ {
		for _, u := range elements.Units {
			assert.NotEmpty(t, UnitSprite(u, c))
		}
	}
	assert.Empty(t, UnitSprite(elements.NoUnit, elements.Neutral))
	assert.Equal(t, "plain", TerrainSprite(77, 0))
}

func TestSpriteBitmaps(t *testing.T) {
	hq, ok := LookupSprite("oshq")
	require.True(t, ok)
	assert.True(t, hq.IsAnimated())

	prop, ok := LookupSprite("osprop")
	require.True(t, ok)
	assert.False(t, prop.IsAnimated())

	unit, ok := LookupSprite("osunit")
	require.True(t, ok)
	for i := 0; i < FrameCount; i++ {
		mask, _ := unit.Layers[0].Frame(i)
		assert.Equal(t, i >= 2 && i <= 5, mask != 0, "frame %d", i)
	}

	for _, name := range []string{"plain", "wood", "mountain", "river", "road", "sea", "shoal",
		"reef", "pipe", "silo", "siloempty", "seam", "tele"} {
		s, ok := LookupSprite(name)
		require.True(t, ok, name)
		assert.False(t, s.IsAnimated(), name)
	}
}

func TestPaintMaskOrientation(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s := Sprite{Layers: []Layer{Static(0x0001, "black"), Static(0x8000, "white")}}
	paint(dst, s, 0, 0, 0)

	assert.Equal(t, mustColor(t, "black"), dst.RGBAAt(0, 0), "LSB is top-left")
	assert.Equal(t, mustColor(t, "white"), dst.RGBAAt(3, 3), "MSB is bottom-right")
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(1, 0))
}

func TestPalette(t *testing.T) {
	names := PaletteNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "nt")
	assert.Contains(t, names, "neunit")
	_, ok := Color("nope")
	assert.False(t, ok)

	p := gifPalette()
	assert.LessOrEqual(t, len(p), 256)
}
