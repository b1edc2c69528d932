package game

import (
	"image"

	"github.com/fogleman/gg"
)

// SpriteKind identifies which artwork an entity is drawn with.
type SpriteKind uint8

const (
	SpriteNone SpriteKind = iota
	SpritePlayer
	SpriteEnemy
	SpriteAmmo
	SpriteMoney
	SpriteMoneyPile
	SpriteExperience
	SpriteExperiencePile
)

// String returns the sprite name
func (k SpriteKind) String() string {
	switch k {
	case SpritePlayer:
		return "player"
	case SpriteEnemy:
		return "enemy"
	case SpriteAmmo:
		return "ammo"
	case SpriteMoney:
		return "money"
	case SpriteMoneyPile:
		return "money_pile"
	case SpriteExperience:
		return "experience"
	case SpriteExperiencePile:
		return "experience_pile"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name in JSON snapshots.
func (k SpriteKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SpriteSet maps each kind to its unflipped artwork.
type SpriteSet map[SpriteKind]image.Image

// Sprite is the visual state of an entity. The mirrored image is built once
// when the image is set, so reading the display image never allocates.
type Sprite struct {
	Kind    SpriteKind
	Flipped bool

	image  image.Image
	mirror image.Image
}

// NewSprite creates a sprite of kind drawn with img. img may be nil for
// headless simulations.
func NewSprite(kind SpriteKind, img image.Image) Sprite {
	s := Sprite{Kind: kind}
	s.SetImage(img)
	return s
}

// SetImage replaces the artwork and rebuilds its mirror.
func (s *Sprite) SetImage(img image.Image) {
	s.image = img
	s.mirror = nil
	if img != nil {
		s.mirror = mirrorImage(img)
	}
}

// DisplayImage returns the image to draw: mirrored when Flipped.
func (s Sprite) DisplayImage() image.Image {
	if s.Flipped {
		return s.mirror
	}
	return s.image
}

// mirrorImage flips img horizontally.
func mirrorImage(img image.Image) image.Image {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.Translate(float64(b.Dx()), 0)
	dc.Scale(-1, 1)
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return dc.Image()
}
