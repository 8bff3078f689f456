// Package minimap draws a map as a small picture: four pixels per tile,
// upscaled for small maps, animated when HQs, Labs or units are present.
package minimap

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"time"

	"golang.org/x/image/draw"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
)

// Format is the encoding of a rendered minimap.
type Format string

const (
	PNG Format = "png"
	GIF Format = "gif"
)

// MIME returns the media type for f.
func (f Format) MIME() string {
	if f == GIF {
		return "image/gif"
	}
	return "image/png"
}

// FrameDelay is how long each animation frame is shown.
const FrameDelay = 150 * time.Millisecond

// Image is an encoded minimap.
type Image struct {
	Format Format
	Data   []byte
	Frames int
	Scale  int
	Width  int
	Height int
}

// Filename returns a file name for the image with the right extension.
func (i *Image) Filename(base string) string {
	return base + "." + string(i.Format)
}

// Frames is a decoded minimap: one frame for a still, FrameCount otherwise.
type Frames struct {
	Images []*image.RGBA
	Scale  int
}

func (f *Frames) Animated() bool { return len(f.Images) > 1 }

// ScaleFor returns the upscale factor for a w by h map.
func ScaleFor(w, h int) int {
	switch area := w * h; {
	case area <= 1600:
		return 4
	case area <= 3200:
		return 2
	default:
		return 1
	}
}

type placed struct {
	sprite Sprite
	x, y   int
}

// RenderFrames composes the minimap frames for m without encoding them.
func RenderFrames(m *awmap.Map) (*Frames, error) {
	if m == nil || m.Width < 1 || m.Height < 1 {
		return nil, fmt.Errorf("%w: empty map", awmap.ErrRenderFailure)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, m.Width*SpriteSize, m.Height*SpriteSize))

	var (
		buffered []placed
		err      error
	)
	m.Each(func(t awmap.Tile) {
		if err != nil {
			return
		}
		name := TerrainSprite(t.Terrain, t.TerrainCountry)
		s, ok := LookupSprite(name)
		if !ok {
			err = fmt.Errorf("%w: no sprite %q", awmap.ErrRenderFailure, name)
			return
		}
		if s.IsAnimated() {
			buffered = append(buffered, placed{s, t.X * SpriteSize, t.Y * SpriteSize})
			return
		}
		paint(canvas, s, 0, t.X*SpriteSize, t.Y*SpriteSize)
	})
	if err != nil {
		return nil, err
	}

	m.Each(func(t awmap.Tile) {
		if !t.HasUnit() {
			return
		}
		if s, ok := LookupSprite(UnitSprite(t.Unit, t.UnitCountry)); ok {
			buffered = append(buffered, placed{s, t.X * SpriteSize, t.Y * SpriteSize})
		}
	})

	frames := []*image.RGBA{canvas}
	if len(buffered) > 0 {
		frames = make([]*image.RGBA, FrameCount)
		for i := range frames {
			f := image.NewRGBA(canvas.Bounds())
			copy(f.Pix, canvas.Pix)
			for _, p := range buffered {
				paint(f, p.sprite, i, p.x, p.y)
			}
			frames[i] = f
		}
	}

	scale := ScaleFor(m.Width, m.Height)
	if scale > 1 {
		for i, f := range frames {
			frames[i] = upscale(f, scale)
		}
	}
	return &Frames{Images: frames, Scale: scale}, nil
}

// paint draws frame i of s with its top-left corner at (ox, oy). Pixels
// outside a layer's mask are left alone.
func paint(dst *image.RGBA, s Sprite, frame, ox, oy int) {
	for _, l := range s.Layers {
		mask, name := l.Frame(frame)
		if mask == 0 {
			continue
		}
		c := palette[name]
		for bit := 0; bit < SpriteSize*SpriteSize; bit++ {
			if mask&(1<<uint(bit)) == 0 {
				continue
			}
			dst.SetRGBA(ox+bit%SpriteSize, oy+bit/SpriteSize, c)
		}
	}
}

func upscale(src *image.RGBA, scale int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Render draws m and encodes it: PNG for a still, looping GIF otherwise.
// The same map always produces the same bytes.
func Render(m *awmap.Map) (*Image, error) {
	frames, err := RenderFrames(m)
	if err != nil {
		return nil, err
	}
	b := frames.Images[0].Bounds()
	img := &Image{
		Frames: len(frames.Images),
		Scale:  frames.Scale,
		Width:  b.Dx(),
		Height: b.Dy(),
	}

	var buf bytes.Buffer
	if !frames.Animated() {
		img.Format = PNG
		if err := png.Encode(&buf, frames.Images[0]); err != nil {
			return nil, fmt.Errorf("%w: png: %v", awmap.ErrRenderFailure, err)
		}
		img.Data = buf.Bytes()
		return img, nil
	}

	img.Format = GIF
	pal := gifPalette()
	anim := &gif.GIF{LoopCount: 0}
	delay := int(FrameDelay / (10 * time.Millisecond))
	for _, f := range frames.Images {
		p := image.NewPaletted(f.Bounds(), pal)
		draw.Draw(p, p.Bounds(), f, f.Bounds().Min, draw.Src)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("%w: gif: %v", awmap.ErrRenderFailure, err)
	}
	img.Data = buf.Bytes()
	return img, nil
}
