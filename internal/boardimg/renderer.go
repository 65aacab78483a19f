// Package boardimg renders the engine's authoritative board as a PNG for the
// ops preview endpoint. Piece glyphs are embedded SVGs rasterized once and
// cached; the board itself is plain image/draw fills.
package boardimg

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/sense-checkers/server/internal/board"
	"github.com/sense-checkers/server/internal/rules"
)

//go:embed assets/*.svg
var pieceFiles embed.FS

const (
	// SquareSize is the rendered edge of one board square in pixels.
	SquareSize = 64

	// glyphSize is the rasterization size of the cached piece glyphs; they
	// are scaled down into squares at compose time.
	glyphSize = 128
)

var (
	lightSquare = color.RGBA{R: 0xE8, G: 0xD8, B: 0xB8, A: 0xFF}
	darkSquare  = color.RGBA{R: 0x8A, G: 0x5A, B: 0x36, A: 0xFF}

	glyphCache   = map[string]image.Image{}
	glyphCacheMu sync.RWMutex
)

// RenderPNG draws all non-captured pieces onto an 8x8 board. flip renders
// the board in player 1's physical frame instead of the canonical one.
func RenderPNG(pieces []rules.Piece, flip bool) ([]byte, error) {
	frame := rules.Player2
	if flip {
		frame = rules.Player1
	}

	edge := board.Size * SquareSize
	img := image.NewRGBA(image.Rect(0, 0, edge, edge))
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			fill := lightSquare
			if (r+c)%2 == 1 {
				fill = darkSquare
			}
			draw.Draw(img, squareRect(r, c), image.NewUniform(fill), image.Point{}, draw.Src)
		}
	}

	for _, pc := range pieces {
		if pc.Captured {
			continue
		}
		glyph, err := pieceGlyph(assetName(pc))
		if err != nil {
			return nil, err
		}
		r, c := board.NotationToGrid(pc.Position, frame)
		cell := squareRect(r, c).Inset(SquareSize / 16)
		xdraw.ApproxBiLinear.Scale(img, cell, glyph, glyph.Bounds(), xdraw.Over, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func squareRect(r, c int) image.Rectangle {
	return image.Rect(c*SquareSize, r*SquareSize, (c+1)*SquareSize, (r+1)*SquareSize)
}

func assetName(pc rules.Piece) string {
	side := "b"
	if pc.Player == rules.Player1 {
		side = "r"
	}
	rank := "m"
	if pc.King {
		rank = "k"
	}
	return fmt.Sprintf("assets/%s%s.svg", side, rank)
}

func pieceGlyph(name string) (image.Image, error) {
	glyphCacheMu.RLock()
	if img, ok := glyphCache[name]; ok {
		glyphCacheMu.RUnlock()
		return img, nil
	}
	glyphCacheMu.RUnlock()

	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, glyphSize, glyphSize)

	img := image.NewRGBA(image.Rect(0, 0, glyphSize, glyphSize))
	scanner := rasterx.NewScannerGV(glyphSize, glyphSize, img, img.Bounds())
	raster := rasterx.NewDasher(glyphSize, glyphSize, scanner)
	icon.Draw(raster, 1.0)

	glyphCacheMu.Lock()
	glyphCache[name] = img
	glyphCacheMu.Unlock()
	return img, nil
}
