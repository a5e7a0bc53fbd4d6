package spritegraph

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// scriptStep is one action of a FrameScript.
type scriptStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float32 `json:"x,omitempty"`
	Y        float32 `json:"y,omitempty"`
	Duration float32 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// FrameScript plays a fixed sequence of camera moves, visibility toggles and
// screenshots, one step per tick, for unattended visual checks of a scene.
//
// Actions:
//
//	{"action": "wait", "frames": 30}
//	{"action": "screenshot", "label": "title"}
//	{"action": "scroll", "x": 400, "y": 300, "duration": 1.5}
//	{"action": "hide", "label": "hud"}   // by EntityLookup name
//	{"action": "show", "label": "hud"}
//
// A scroll blocks the script until the camera arrives.
type FrameScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadFrameScript parses {"steps": [...]}.
func LoadFrameScript(data []byte) (*FrameScript, error) {
	var doc struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("spritegraph: parse frame script: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("spritegraph: parse frame script: no steps")
	}
	for i, st := range doc.Steps {
		switch st.Action {
		case "wait", "screenshot", "scroll", "hide", "show":
		default:
			return nil, fmt.Errorf("spritegraph: frame script step %d: unknown action %q", i, st.Action)
		}
	}
	return &FrameScript{steps: doc.Steps}, nil
}

// Done reports whether every step has run.
func (r *FrameScript) Done() bool {
	return r.done
}

// step runs at most one action. shoot queues a screenshot.
func (r *FrameScript) step(s *Scene, shoot func(label string)) error {
	if r.done {
		return nil
	}
	if s.Camera != nil && s.Camera.Scrolling() {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts
		}
	case "screenshot":
		shoot(st.Label)
	case "scroll":
		if s.Camera != nil {
			s.Camera.ScrollTo(st.X, st.Y, st.Duration, ease.InOutQuad)
		}
	case "hide", "show":
		e, ok := s.Lookup.Get(st.Label)
		if !ok {
			return fmt.Errorf("spritegraph: frame script: no entity named %q", st.Label)
		}
		if t := TransformOf(s.World, e); t != nil {
			t.Visible = st.Action == "show"
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return nil
}

// captureNRGBA reads img back and converts its premultiplied pixels to
// straight alpha.
func captureNRGBA(img *ebiten.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.ReadPixels(out.Pix)
	unpremultiply(out.Pix)
	return out
}

func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			pix[i+c] = uint8(min(int(pix[i+c])*255/a, 255))
		}
	}
}

// writeScreenshots encodes img once per label into dir as
// <timestamp>_<label>.png.
func writeScreenshots(dir string, labels []string, img image.Image) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("spritegraph: screenshot dir: %w", err)
	}
	stamp := time.Now().Format("20060102_150405")
	for _, label := range labels {
		name := filepath.Join(dir, stamp+"_"+screenshotName(label)+".png")
		if err := writePNG(name, img); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("spritegraph: screenshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("spritegraph: encode %s: %w", name, err)
	}
	return f.Close()
}

// screenshotName keeps letters, digits, '-' and '.'; everything else becomes
// '_'. Empty labels become "unlabeled".
func screenshotName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
