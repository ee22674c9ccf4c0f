// Package qr renders ticket QR codes as styled PNG images: the QR matrix
// is drawn as rounded dots on a card-colored background, with an optional
// centered logo.
package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"
)

type Config struct {
	Size       int
	QuietZone  int // modules of empty border around the code
	Background color.Color
	Foreground color.Color
	// DotScale shrinks each module dot relative to its cell, 0..1.
	DotScale float64
	// LogoPath optionally embeds a logo at the center. The high recovery
	// level leaves enough redundancy for the covered modules.
	LogoPath  string
	LogoScale float64
}

// Ticket is the default style for attendee tickets.
var Ticket = Config{
	Size:       512,
	QuietZone:  2,
	Background: color.RGBA{R: 20, G: 20, B: 20, A: 255},
	Foreground: color.RGBA{R: 230, G: 230, B: 230, A: 255},
	DotScale:   0.85,
	LogoScale:  0.2,
}

// Generate encodes content and returns the rendered PNG.
func (c *Config) Generate(content string) ([]byte, error) {
	code, err := qrcode.New(content, qrcode.High)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true

	matrix := code.Bitmap()
	modules := len(matrix)
	cells := modules + 2*c.QuietZone
	cell := float64(c.Size) / float64(cells)

	dc := gg.NewContext(c.Size, c.Size)
	dc.SetColor(c.Background)
	dc.Clear()

	dotRadius := cell * c.DotScale / 2
	dc.SetColor(c.Foreground)
	for y, row := range matrix {
		for x, set := range row {
			if !set {
				continue
			}
			cx := (float64(x+c.QuietZone) + 0.5) * cell
			cy := (float64(y+c.QuietZone) + 0.5) * cell
			dc.DrawCircle(cx, cy, dotRadius)
		}
	}
	dc.Fill()

	if c.LogoPath != "" {
		if err := c.drawLogo(dc); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Config) drawLogo(dc *gg.Context) error {
	f, err := os.Open(c.LogoPath)
	if err != nil {
		return err
	}
	defer f.Close()

	logo, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	logoSize := int(float64(c.Size) * c.LogoScale)
	resized := resize.Resize(uint(logoSize), uint(logoSize), logo, resize.Lanczos3)

	// Clear a circular patch behind the logo so it stays readable.
	center := float64(c.Size) / 2
	dc.SetColor(c.Background)
	dc.DrawCircle(center, center, float64(logoSize)/2+4)
	dc.Fill()

	offset := (c.Size - logoSize) / 2
	dc.DrawImage(resized, offset, offset)
	return nil
}
