package spritegraph

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Stored as float32 because it is copied straight into vertex data.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default vertex color (no tint).
var ColorWhite = Color{1, 1, 1, 1}

// vec4 returns the color as a vertex attribute.
func (c Color) vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// toRGBA converts to an 8-bit color.RGBA, clamping each channel.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: clampByte(c.R * c.A),
		G: clampByte(c.G * c.A),
		B: clampByte(c.B * c.A),
		A: clampByte(c.A),
	}
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendAlpha    BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAlpha:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// DepthFunc is the depth comparison used by the pipeline.
type DepthFunc uint8

const (
	DepthNone      DepthFunc = iota // depth testing disabled
	DepthLess                       // pass when incoming z < stored z
	DepthLessEqual                  // pass when incoming z <= stored z
	DepthAlways                     // always pass, still writes when enabled
)

// Filter selects texture sampling.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

// ebitenFilter maps a Filter to its ebiten equivalent.
func (f Filter) ebitenFilter() ebiten.Filter {
	if f == FilterLinear {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

// TextAlign controls horizontal text alignment within a Text's bounds.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)
