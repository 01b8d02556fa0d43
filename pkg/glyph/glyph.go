// Package glyph converts text into outline drawing instructions using
// TrueType/OpenType fonts.
package glyph

import (
	"fmt"
	"os"
	"sync"

	"github.com/chazu/rcad/pkg/log"
	"github.com/chazu/rcad/pkg/outline"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Outlines are extracted at this pixels-per-em and scaled down to the
// requested size, so small sizes keep sub-unit precision.
const loadPPEM = 1024

// Font is a parsed font. A Font is safe for concurrent use.
type Font struct {
	Name string
	sf   *sfnt.Font

	mu  sync.Mutex
	buf sfnt.Buffer
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*Font{}
)

// Load parses the font file at path, or the built-in Go Regular face when
// path is empty. Fonts are cached by path.
func Load(path string) (*Font, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if f, ok := cache[path]; ok {
		return f, nil
	}

	data := goregular.TTF
	name := "goregular"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("glyph: load font: %w", err)
		}
		data, name = b, path
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font %s: %w", name, err)
	}
	f := &Font{Name: name, sf: sf}
	cache[path] = f
	log.WithComponent("glyph").Debug("font loaded", "font", name, "glyphs", sf.NumGlyphs())
	return f, nil
}

// Instructions lays out text on a single baseline starting at the origin and
// returns its outline. size is the em height in model units; y points up.
// Every contour is closed explicitly.
func (f *Font) Instructions(text string, size float64) ([]outline.Instruction, error) {
	if size <= 0 {
		return nil, fmt.Errorf("glyph: non-positive size %g", size)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	ppem := fixed.Int26_6(loadPPEM * 64)
	scale := size / loadPPEM / 64

	var (
		out   []outline.Instruction
		penX  float64
		prev  sfnt.GlyphIndex
		first = true
	)
	for _, r := range text {
		gid, err := f.sf.GlyphIndex(&f.buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph: index %q: %w", r, err)
		}
		if !first {
			if k, err := f.sf.Kern(&f.buf, prev, gid, ppem, font.HintingNone); err == nil {
				penX += float64(k) * scale
			}
		}

		segs, err := f.sf.LoadGlyph(&f.buf, gid, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("glyph: load %q: %w", r, err)
		}
		pt := func(p fixed.Point26_6) v2.Vec {
			return v2.Vec{X: penX + float64(p.X)*scale, Y: -float64(p.Y) * scale}
		}
		open := false
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					out = append(out, outline.Close())
				}
				out = append(out, outline.MoveTo(pt(seg.Args[0])))
				open = true
			case sfnt.SegmentOpLineTo:
				out = append(out, outline.LineTo(pt(seg.Args[0])))
			case sfnt.SegmentOpQuadTo:
				out = append(out, outline.QuadTo(pt(seg.Args[0]), pt(seg.Args[1])))
			case sfnt.SegmentOpCubeTo:
				out = append(out, outline.CurveTo(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2])))
			}
		}
		if open {
			out = append(out, outline.Close())
		}

		adv, err := f.sf.GlyphAdvance(&f.buf, gid, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("glyph: advance %q: %w", r, err)
		}
		penX += float64(adv) * scale
		prev, first = gid, false
	}
	return out, nil
}

// Instructions loads the font at path (empty for the default face) and lays
// out text at size.
func Instructions(text, path string, size float64) ([]outline.Instruction, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return f.Instructions(text, size)
}
