package spritegraph

import "errors"

var (
	// ErrUnknownFrame is returned when a frame name is not present in any
	// loaded sheet. Frame names come from content, so this indicates an
	// asset mismatch rather than a runtime condition.
	ErrUnknownFrame = errors.New("unknown frame")

	// ErrUnknownSheet is returned when a sheet name has no loaded sheet.
	ErrUnknownSheet = errors.New("unknown sheet")

	// ErrUnknownTileset is returned when a tile map references a tileset
	// texture that was never registered with the scene.
	ErrUnknownTileset = errors.New("unknown tileset")

	// ErrUnknownAnimation is returned by AnimationSheet.SetCurrentAnimation.
	ErrUnknownAnimation = errors.New("unknown animation")

	// ErrInvalidSheet is returned when sheet metadata cannot be used.
	ErrInvalidSheet = errors.New("invalid sheet")

	// ErrNoTarget is returned by EbitenBackend when drawing without a target image.
	ErrNoTarget = errors.New("no render target")
)
