package spritegraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// Frame is a named rectangle within a sheet, in pixels.
type Frame struct {
	Name string

	// X, Y, W, H locate the frame inside the sheet image.
	X, Y, W, H int

	// SourceW and SourceH are the untrimmed size as authored. Quads are drawn
	// at this size.
	SourceW, SourceH int

	// OffsetX and OffsetY are the trim offset inside the untrimmed source.
	OffsetX, OffsetY int

	// Rotated is parsed but not applied when rendering.
	Rotated bool
	Trimmed bool
}

// SpriteSheet is one texture atlas plus the frames it contains.
type SpriteSheet struct {
	Name string

	// Width and Height are the sheet's pixel dimensions. UVs are normalized
	// by these.
	Width, Height int

	// Texture is the backing texture handle. May be nil in tests that only
	// exercise lookups.
	Texture Texture

	frames []Frame
	byName map[string]int
}

// NewSpriteSheet builds a sheet from already-decoded frames.
func NewSpriteSheet(name string, width, height int, frames []Frame, tex Texture) (*SpriteSheet, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("spritegraph: sheet %q has size %dx%d: %w", name, width, height, ErrInvalidSheet)
	}
	s := &SpriteSheet{
		Name:    name,
		Width:   width,
		Height:  height,
		Texture: tex,
		frames:  frames,
		byName:  make(map[string]int, len(frames)),
	}
	for i, f := range frames {
		s.byName[f.Name] = i
	}
	return s, nil
}

// Frames returns the sheet's frames. The returned slice MUST NOT be mutated.
func (s *SpriteSheet) Frames() []Frame {
	return s.frames
}

// Frame returns the named frame and whether the sheet has it.
func (s *SpriteSheet) Frame(name string) (Frame, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Frame{}, false
	}
	return s.frames[i], true
}

// --- TexturePacker JSON ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Filename         string   `json:"filename"`
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonSheet struct {
	Frames json.RawMessage `json:"frames"`
	Meta   struct {
		Image string   `json:"image"`
		Size  jsonSize `json:"size"`
	} `json:"meta"`
}

// ParseSpriteSheet parses TexturePacker JSON for one sheet. Both the array
// format ("frames": [{"filename": ...}, ...]) and the hash format
// ("frames": {"name": {...}, ...}) are accepted.
//
// The sheet size comes from meta.size; when absent it falls back to the
// texture's size.
func ParseSpriteSheet(name string, jsonData []byte, tex Texture) (*SpriteSheet, error) {
	var doc jsonSheet
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("spritegraph: failed to parse sheet %q: %w", name, err)
	}
	if doc.Frames == nil {
		return nil, fmt.Errorf("spritegraph: sheet %q has no \"frames\" key: %w", name, ErrInvalidSheet)
	}

	var frames []Frame
	raw := bytes.TrimSpace(doc.Frames)
	switch {
	case len(raw) > 0 && raw[0] == '[':
		var list []jsonFrame
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("spritegraph: failed to parse frames of sheet %q: %w", name, err)
		}
		frames = make([]Frame, 0, len(list))
		for _, f := range list {
			frames = append(frames, toFrame(f.Filename, f))
		}
	case len(raw) > 0 && raw[0] == '{':
		var hash map[string]jsonFrame
		if err := json.Unmarshal(raw, &hash); err != nil {
			return nil, fmt.Errorf("spritegraph: failed to parse frames of sheet %q: %w", name, err)
		}
		frames = make([]Frame, 0, len(hash))
		for fname, f := range hash {
			frames = append(frames, toFrame(fname, f))
		}
		// map order is random; keep Frames() deterministic
		sort.Slice(frames, func(i, j int) bool { return frames[i].Name < frames[j].Name })
	default:
		return nil, fmt.Errorf("spritegraph: sheet %q frames must be an array or object: %w", name, ErrInvalidSheet)
	}

	w, h := doc.Meta.Size.W, doc.Meta.Size.H
	if (w == 0 || h == 0) && tex != nil {
		w, h = tex.Size()
	}
	return NewSpriteSheet(name, w, h, frames, tex)
}

func toFrame(name string, f jsonFrame) Frame {
	sw, sh := f.SourceSize.W, f.SourceSize.H
	if sw == 0 || sh == 0 {
		sw, sh = f.Frame.W, f.Frame.H
	}
	return Frame{
		Name:    name,
		X:       f.Frame.X,
		Y:       f.Frame.Y,
		W:       f.Frame.W,
		H:       f.Frame.H,
		SourceW: sw,
		SourceH: sh,
		OffsetX: f.SpriteSourceSize.X,
		OffsetY: f.SpriteSourceSize.Y,
		Rotated: f.Rotated,
		Trimmed: f.Trimmed,
	}
}

// --- SheetIndex ---

// SheetIndex maps frame names to the sheet that holds them. Built once at
// load time and read-only afterwards.
//
// Frame names are expected to be unique across sheets. When they are not,
// the sheet registered last wins; the collisions are kept in Duplicates.
// A sheet whose name repeats replaces the earlier sheet entirely; the earlier
// sheet's frames become unknown and the name is kept in DuplicateSheets.
type SheetIndex struct {
	frameToSheet    map[string]string
	sheets          map[string]*SpriteSheet
	duplicates      []string
	duplicateSheets []string
}

// NewSheetIndex indexes the given sheets in order.
func NewSheetIndex(sheets ...*SpriteSheet) *SheetIndex {
	x := &SheetIndex{
		frameToSheet: make(map[string]string),
		sheets:       make(map[string]*SpriteSheet, len(sheets)),
	}
	for _, s := range sheets {
		if old, ok := x.sheets[s.Name]; ok {
			x.duplicateSheets = append(x.duplicateSheets, s.Name)
			if globalDebug {
				debugf("warning: sheet %q registered twice, dropping the earlier one", s.Name)
			}
			for _, f := range old.frames {
				if x.frameToSheet[f.Name] == s.Name {
					delete(x.frameToSheet, f.Name)
				}
			}
		}
		x.sheets[s.Name] = s
		for _, f := range s.frames {
			if prev, ok := x.frameToSheet[f.Name]; ok && prev != s.Name {
				x.duplicates = append(x.duplicates, f.Name)
				if globalDebug {
					debugf("warning: frame %q in sheet %q shadows sheet %q", f.Name, s.Name, prev)
				}
			}
			x.frameToSheet[f.Name] = s.Name
		}
	}
	return x
}

// FrameToSheet returns the name of the sheet holding frameName.
// Unknown names fail with ErrUnknownFrame.
func (x *SheetIndex) FrameToSheet(frameName string) (string, error) {
	sheet, ok := x.frameToSheet[frameName]
	if !ok {
		return "", fmt.Errorf("spritegraph: frame %q: %w", frameName, ErrUnknownFrame)
	}
	return sheet, nil
}

// Frame resolves frameName to its rectangle and owning sheet.
func (x *SheetIndex) Frame(frameName string) (Frame, *SpriteSheet, error) {
	sheetName, err := x.FrameToSheet(frameName)
	if err != nil {
		return Frame{}, nil, err
	}
	s := x.sheets[sheetName]
	f, ok := s.Frame(frameName)
	if !ok {
		return Frame{}, nil, fmt.Errorf("spritegraph: frame %q not in sheet %q: %w", frameName, sheetName, ErrUnknownFrame)
	}
	return f, s, nil
}

// Sheet returns the named sheet. Unknown names fail with ErrUnknownSheet.
func (x *SheetIndex) Sheet(name string) (*SpriteSheet, error) {
	s, ok := x.sheets[name]
	if !ok {
		return nil, fmt.Errorf("spritegraph: sheet %q: %w", name, ErrUnknownSheet)
	}
	return s, nil
}

// NumFrames returns the number of distinct frame names.
func (x *SheetIndex) NumFrames() int {
	return len(x.frameToSheet)
}

// Duplicates returns frame names that appeared in more than one sheet.
func (x *SheetIndex) Duplicates() []string {
	return x.duplicates
}

// DuplicateSheets returns sheet names that were registered more than once.
func (x *SheetIndex) DuplicateSheets() []string {
	return x.duplicateSheets
}

// TextureLoader returns the texture backing the named sheet.
type TextureLoader func(sheetName string) (Texture, error)

// LoadSheetIndex reads "<name>.json" from fsys for every name, loads its
// texture through load, and indexes the result in the order given.
func LoadSheetIndex(fsys fs.FS, load TextureLoader, names ...string) (*SheetIndex, error) {
	sheets := make([]*SpriteSheet, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("spritegraph: sheet %q listed twice: %w", name, ErrInvalidSheet)
		}
		seen[name] = true
		data, err := fs.ReadFile(fsys, path.Clean(name+".json"))
		if err != nil {
			return nil, fmt.Errorf("spritegraph: read sheet %q: %w", name, err)
		}
		var tex Texture
		if load != nil {
			if tex, err = load(name); err != nil {
				return nil, fmt.Errorf("spritegraph: load texture for sheet %q: %w", name, err)
			}
		}
		s, err := ParseSpriteSheet(name, data, tex)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return NewSheetIndex(sheets...), nil
}
