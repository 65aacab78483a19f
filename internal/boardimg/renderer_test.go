package boardimg

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/sense-checkers/server/internal/board"
	"github.com/sense-checkers/server/internal/rules"
)

func decodePNG(t *testing.T, data []byte) (w, h int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(rules.NewGame().Pieces(), false)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	w, h := decodePNG(t, data)
	edge := board.Size * SquareSize
	if w != edge || h != edge {
		t.Fatalf("image %dx%d, want %dx%d", w, h, edge, edge)
	}
}

func TestRenderPNGFlipDiffers(t *testing.T) {
	// An asymmetric position renders differently in the two frames.
	e, err := rules.NewPosition(1, []rules.Piece{
		{Player: 1, Position: 9},
		{Player: 2, Position: 30},
	})
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}

	canonical, err := RenderPNG(e.Pieces(), false)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	flipped, err := RenderPNG(e.Pieces(), true)
	if err != nil {
		t.Fatalf("RenderPNG flipped: %v", err)
	}
	if bytes.Equal(canonical, flipped) {
		t.Fatal("flipped render identical to canonical")
	}
}

func TestRenderPNGSkipsCaptured(t *testing.T) {
	live := []rules.Piece{{Player: 1, Position: 9}}
	withCaptured := append(live, rules.Piece{Player: 2, Position: 30, Captured: true})

	a, err := RenderPNG(live, false)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	b, err := RenderPNG(withCaptured, false)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("captured piece was drawn")
	}
}

func TestRenderPNGKingGlyph(t *testing.T) {
	man, err := RenderPNG([]rules.Piece{{Player: 1, Position: 18}}, false)
	if err != nil {
		t.Fatalf("RenderPNG man: %v", err)
	}
	king, err := RenderPNG([]rules.Piece{{Player: 1, Position: 18, King: true}}, false)
	if err != nil {
		t.Fatalf("RenderPNG king: %v", err)
	}
	if bytes.Equal(man, king) {
		t.Fatal("king glyph identical to man glyph")
	}
}
