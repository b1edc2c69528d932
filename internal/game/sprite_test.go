package game

import (
	"image"
	"image/color"
	"testing"
)

func halfImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSpriteDisplayImage(t *testing.T) {
	img := halfImage()
	s := NewSprite(SpriteEnemy, img)

	if s.DisplayImage() != image.Image(img) {
		t.Error("Unflipped sprite should draw the original image")
	}

	s.Flipped = true
	mirrored := s.DisplayImage()
	if mirrored == nil {
		t.Fatal("Expected a mirrored image")
	}
	if b := mirrored.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("Mirror should keep the size, got %v", b)
	}

	r, _, bl, _ := mirrored.At(0, 1).RGBA()
	if bl <= r {
		t.Errorf("Left edge of the mirror should be blue, got r=%d b=%d", r, bl)
	}
	r, _, bl, _ = mirrored.At(3, 1).RGBA()
	if r <= bl {
		t.Errorf("Right edge of the mirror should be red, got r=%d b=%d", r, bl)
	}
}

func TestSpriteWithoutImage(t *testing.T) {
	s := NewSprite(SpritePlayer, nil)
	s.Flipped = true
	if s.DisplayImage() != nil {
		t.Error("Headless sprite should have no image")
	}
}

func TestSpriteKindText(t *testing.T) {
	b, err := SpriteMoneyPile.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != SpriteMoneyPile.String() {
		t.Errorf("Expected %q, got %q", SpriteMoneyPile.String(), b)
	}
}
