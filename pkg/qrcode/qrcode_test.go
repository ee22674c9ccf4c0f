package qr

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGenerateProducesPNG(t *testing.T) {
	data, err := Ticket.Generate("mainevents://ticket/event-1/code-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != Ticket.Size || bounds.Dy() != Ticket.Size {
		t.Fatalf("image is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), Ticket.Size, Ticket.Size)
	}
}

func TestGenerateMissingLogoFails(t *testing.T) {
	cfg := Ticket
	cfg.LogoPath = "does/not/exist.png"
	if _, err := cfg.Generate("content"); err == nil {
		t.Fatal("want error for missing logo file")
	}
}
