package spritegraph

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lafriks/go-tiled"
)

// GID flag bits (same convention as Tiled TMX format).
const (
	tileFlipH    uint32 = 1 << 31 // horizontal flip
	tileFlipV    uint32 = 1 << 30 // vertical flip
	tileFlipD    uint32 = 1 << 29 // diagonal flip (transpose)
	tileFlagMask uint32 = tileFlipH | tileFlipV | tileFlipD
)

// uvOrder defines vertex UV assignment for each combination of flip flags.
// Indexed by 3-bit flag value: (flipH << 2) | (flipV << 1) | flipD.
// Corners are numbered TL=0, TR=1, BL=2, BR=3; entry i names the source
// corner sampled at destination corner i. Tiled applies the diagonal flip
// first, then horizontal, then vertical.
var uvOrder = [8][4]int{
	{0, 1, 2, 3}, // no flags
	{0, 2, 1, 3}, // D only (transpose)
	{2, 3, 0, 1}, // V
	{1, 3, 0, 2}, // V+D (90° CCW)
	{1, 0, 3, 2}, // H
	{2, 0, 3, 1}, // H+D (90° CW)
	{3, 2, 1, 0}, // H+V (180°)
	{3, 1, 2, 0}, // H+V+D (anti-transpose)
}

// quadCorner maps quad vertex order (TL, TR, BR, BL) to corner numbers.
var quadCorner = [4]int{0, 1, 3, 2}

// TileMap is a pre-triangulated mesh of tiles that all sample one tileset
// texture. It is drawn with Renderer.DrawBatch, bypassing the sprite batch.
type TileMap struct {
	// Tileset names the texture registered with the Scene.
	Tileset  string
	Vertices []Vertex
}

// NumTiles returns the number of quads in the mesh.
func (m *TileMap) NumTiles() int {
	return len(m.Vertices) / 4
}

// Tileset describes the grid layout of a tileset image.
type Tileset struct {
	Name           string
	FirstGID       uint32
	TileW, TileH   int
	Columns        int
	Margin         int
	Spacing        int
	ImageW, ImageH int
}

// columns returns Columns, or derives it from the image width.
func (ts *Tileset) columns() int {
	if ts.Columns > 0 {
		return ts.Columns
	}
	stride := ts.TileW + ts.Spacing
	if stride <= 0 {
		return 1
	}
	c := (ts.ImageW - 2*ts.Margin + ts.Spacing) / stride
	if c < 1 {
		c = 1
	}
	return c
}

// tileUV returns the normalized rectangle of local tile id.
func (ts *Tileset) tileUV(id uint32) uvRect {
	cols := uint32(ts.columns())
	x := ts.Margin + int(id%cols)*(ts.TileW+ts.Spacing)
	y := ts.Margin + int(id/cols)*(ts.TileH+ts.Spacing)
	iw := float32(ts.ImageW)
	ih := float32(ts.ImageH)
	return uvRect{
		U0: float32(x) / iw,
		V0: float32(y) / ih,
		U1: float32(x+ts.TileW) / iw,
		V1: float32(y+ts.TileH) / ih,
	}
}

// appendTile appends one quad with UVs permuted by the flip flags.
func appendTile(verts []Vertex, x, y, z, w, h float32, uv uvRect, flags uint32) []Vertex {
	flagIdx := 0
	if flags&tileFlipH != 0 {
		flagIdx |= 4
	}
	if flags&tileFlipV != 0 {
		flagIdx |= 2
	}
	if flags&tileFlipD != 0 {
		flagIdx |= 1
	}
	order := uvOrder[flagIdx]

	// corners TL, TR, BL, BR
	us := [4]float32{uv.U0, uv.U1, uv.U0, uv.U1}
	vs := [4]float32{uv.V0, uv.V0, uv.V1, uv.V1}

	n := len(verts)
	verts = appendQuad(verts, mgl32.Vec3{x, y, z}, w, h, fullUV, ColorWhite.vec4())
	for k := 0; k < 4; k++ {
		src := order[quadCorner[k]]
		verts[n+k].UV = mgl32.Vec2{us[src], vs[src]}
	}
	return verts
}

// BuildTileLayer meshes a row-major grid of raw GIDs (flip bits allowed, 0 =
// empty) that all belong to ts. Cells are tileW×tileH; z is the layer depth.
func BuildTileLayer(gids []uint32, cols, tileW, tileH int, z float32, ts Tileset) TileMap {
	tm := TileMap{Tileset: ts.Name}
	if cols <= 0 {
		return tm
	}
	w := float32(ts.TileW)
	h := float32(ts.TileH)
	for i, gid := range gids {
		id := gid &^ tileFlagMask
		if id == 0 || id < ts.FirstGID {
			continue
		}
		col := i % cols
		row := i / cols
		// Tiles taller than the cell grow upward from the cell's bottom edge.
		x := float32(col * tileW)
		y := float32((row+1)*tileH) - h
		tm.Vertices = appendTile(tm.Vertices, x, y, z, w, h, ts.tileUV(id-ts.FirstGID), gid&tileFlagMask)
	}
	return tm
}

// TilesetName is the name a tiled tileset is registered under: its own name,
// or the base name of its image without extension.
func TilesetName(ts *tiled.Tileset) string {
	if ts.Name != "" {
		return ts.Name
	}
	if ts.Image != nil {
		base := path.Base(ts.Image.Source)
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return ""
}

func tilesetFromTiled(ts *tiled.Tileset) (Tileset, error) {
	if ts.Image == nil || ts.Image.Width <= 0 || ts.Image.Height <= 0 {
		return Tileset{}, fmt.Errorf("spritegraph: tileset %q has no single image: %w", ts.Name, ErrInvalidSheet)
	}
	return Tileset{
		Name:     TilesetName(ts),
		FirstGID: ts.FirstGID,
		TileW:    ts.TileWidth,
		TileH:    ts.TileHeight,
		Columns:  ts.Columns,
		Margin:   ts.Margin,
		Spacing:  ts.Spacing,
		ImageW:   ts.Image.Width,
		ImageH:   ts.Image.Height,
	}, nil
}

// BuildTileMaps meshes every tile layer of m, one TileMap per tileset that
// has tiles, in the map's tileset order. Layer i sits at z = i+1 so later
// layers draw on top.
func BuildTileMaps(m *tiled.Map) ([]TileMap, error) {
	sets := make([]Tileset, len(m.Tilesets))
	byPtr := make(map[*tiled.Tileset]int, len(m.Tilesets))
	for i, ts := range m.Tilesets {
		s, err := tilesetFromTiled(ts)
		if err != nil {
			return nil, err
		}
		sets[i] = s
		byPtr[ts] = i
	}

	meshes := make([]TileMap, len(sets))
	for i := range sets {
		meshes[i].Tileset = sets[i].Name
	}

	cellW := float32(m.TileWidth)
	cellH := float32(m.TileHeight)
	for li, layer := range m.Layers {
		z := float32(li + 1)
		for i, tile := range layer.Tiles {
			if tile == nil || tile.IsNil() {
				continue
			}
			si, ok := byPtr[tile.Tileset]
			if !ok {
				return nil, fmt.Errorf("spritegraph: layer %q references an unlisted tileset: %w", layer.Name, ErrUnknownTileset)
			}
			ts := &sets[si]
			var flags uint32
			if tile.HorizontalFlip {
				flags |= tileFlipH
			}
			if tile.VerticalFlip {
				flags |= tileFlipV
			}
			if tile.DiagonalFlip {
				flags |= tileFlipD
			}
			w := float32(ts.TileW)
			h := float32(ts.TileH)
			x := float32(i%m.Width) * cellW
			y := float32(i/m.Width+1)*cellH - h
			meshes[si].Vertices = appendTile(meshes[si].Vertices, x, y, z, w, h, ts.tileUV(tile.ID), flags)
		}
	}

	out := meshes[:0]
	for _, tm := range meshes {
		if len(tm.Vertices) > 0 {
			out = append(out, tm)
		}
	}
	return out, nil
}

// LoadTileMaps loads a TMX file from fsys and meshes it.
func LoadTileMaps(fsys fs.FS, name string) ([]TileMap, *tiled.Map, error) {
	m, err := tiled.LoadFile(name, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, nil, fmt.Errorf("spritegraph: load map %q: %w", name, err)
	}
	meshes, err := BuildTileMaps(m)
	if err != nil {
		return nil, nil, err
	}
	return meshes, m, nil
}
