// Package render draws game snapshots into frames with fogleman/gg.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"survivors/internal/config"
	"survivors/internal/game"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Text sizes in points
const (
	DamageTextSize = 18
	HUDTextSize    = 20
	BannerTextSize = 64
)

// Options tune the renderer
type Options struct {
	Scale          float64 // output size relative to the play field, default 1
	LabelCacheSize int
	ShowDebug      bool // draw the collision stats line and the grid
	CellSize       float64
}

// Renderer draws snapshots. It is safe for concurrent use; frames are
// drawn one at a time.
type Renderer struct {
	mu sync.Mutex

	field  config.FieldConfig
	opts   Options
	width  int
	height int

	dc      *gg.Context
	font    *opentype.Font
	faces   map[float64]font.Face
	labels  *LabelCache
	sprites game.SpriteSet
	encoder png.Encoder
}

// NewRenderer creates a renderer for the given play field. sprites supplies
// fallback artwork for snapshot entries without an image; nil uses
// DefaultSprites.
func NewRenderer(field config.FieldConfig, sprites game.SpriteSet, opts Options) (*Renderer, error) {
	if field.Width <= 0 || field.Height <= 0 {
		return nil, fmt.Errorf("new renderer: %w: field %gx%g", config.ErrInvalid, field.Width, field.Height)
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if sprites == nil {
		sprites = DefaultSprites()
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("new renderer: parse font: %w", err)
	}

	r := &Renderer{
		field:   field,
		opts:    opts,
		width:   int(math.Ceil(field.Width * opts.Scale)),
		height:  int(math.Ceil(field.Height * opts.Scale)),
		font:    parsed,
		faces:   make(map[float64]font.Face),
		sprites: sprites,
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
	}
	r.dc = gg.NewContext(r.width, r.height)
	r.labels = NewLabelCache(opts.LabelCacheSize, r.drawLabel)
	return r, nil
}

// Size returns the frame size in pixels
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Labels exposes the label cache for monitoring
func (r *Renderer) Labels() *LabelCache { return r.labels }

// face returns the cached face for size. Faces are loaded once, not per frame.
func (r *Renderer) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// goregular always yields a face; keep rendering without text
		return nil
	}
	r.faces[size] = f
	return f
}

// drawLabel renders outlined text on a transparent background
func (r *Renderer) drawLabel(text string, size float64) image.Image {
	face := r.face(size)
	if face == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	measure := gg.NewContext(1, 1)
	measure.SetFontFace(face)
	w, h := measure.MeasureString(text)

	const pad = 3
	dc := gg.NewContext(int(math.Ceil(w))+2*pad, int(math.Ceil(h*1.3))+2*pad)
	dc.SetFontFace(face)
	cx, cy := float64(dc.Width())/2, float64(dc.Height())/2

	dc.SetColor(colorOutline)
	for dy := -2; dy <= 2; dy += 2 {
		for dx := -2; dx <= 2; dx += 2 {
			dc.DrawStringAnchored(text, cx+float64(dx), cy+float64(dy), 0.5, 0.5)
		}
	}
	dc.SetColor(colorText)
	dc.DrawStringAnchored(text, cx, cy, 0.5, 0.5)
	return dc.Image()
}

// Render draws snap and returns the frame. The returned image is reused by
// the next call.
func (r *Renderer) Render(snap *game.GameSnapshot) image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.render(snap)
}

// EncodePNG renders snap and writes it to w as PNG
func (r *Renderer) EncodePNG(w io.Writer, snap *game.GameSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.encoder.Encode(w, r.render(snap)); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func (r *Renderer) render(snap *game.GameSnapshot) image.Image {
	dc := r.dc
	dc.Identity()
	dc.SetColor(colorBackground)
	dc.Clear()

	dc.Push()
	dc.Scale(r.opts.Scale, r.opts.Scale)

	if r.opts.ShowDebug {
		r.drawGrid(dc)
	}
	for _, d := range snap.Drops {
		r.drawSprite(dc, d.Image, d.Sprite, d.X, d.Y, d.W, d.H, colorMoney)
	}
	for _, e := range snap.Enemies {
		r.drawSprite(dc, e.Image, e.Sprite, e.X, e.Y, e.W, e.H, colorEnemy)
	}
	for _, p := range snap.Projectiles {
		dc.SetColor(colorAmmo)
		dc.DrawEllipse(p.X+p.W/2, p.Y+p.H/2, p.W/2, p.H/2)
		dc.Fill()
	}
	pl := snap.Player
	r.drawSprite(dc, pl.Image, pl.Sprite, pl.X, pl.Y, pl.W, pl.H, colorPlayer)
	r.drawHealthBar(dc, pl)

	for _, t := range snap.Texts {
		r.drawDamageText(dc, t)
	}
	dc.Pop()

	r.drawHUD(dc, snap)
	return dc.Image()
}

// drawSprite draws img, or the fallback artwork for kind, stretched to the
// entity box. A missing sprite becomes a filled rectangle.
func (r *Renderer) drawSprite(dc *gg.Context, img image.Image, kind game.SpriteKind, x, y, w, h float64, fallback color.Color) {
	if img == nil {
		img = r.sprites[kind]
	}
	if img == nil {
		dc.SetColor(fallback)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		return
	}

	b := img.Bounds()
	sx, sy := w/float64(b.Dx()), h/float64(b.Dy())
	if sx == 1 && sy == 1 {
		dc.DrawImage(img, int(math.Round(x)), int(math.Round(y)))
		return
	}
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(sx, sy)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

func (r *Renderer) drawHealthBar(dc *gg.Context, pl game.PlayerSnapshot) {
	if pl.Stats.MaxHealth <= 0 {
		return
	}
	frac := math.Max(0, math.Min(1, pl.Stats.Health/pl.Stats.MaxHealth))

	dc.SetColor(colorOutline)
	dc.DrawRectangle(pl.X, pl.Y-8, pl.W, 4)
	dc.Fill()
	dc.SetColor(colorExperience)
	dc.DrawRectangle(pl.X, pl.Y-8, pl.W*frac, 4)
	dc.Fill()
}

// drawDamageText floats the number upward as the animation ages
func (r *Renderer) drawDamageText(dc *gg.Context, t game.TextSnapshot) {
	label := r.labels.Get(t.Text, DamageTextSize)
	rise := 40 * t.Frame / game.DamageTextDuration
	dc.DrawImageAnchored(label, int(t.X), int(t.Y-rise), 0.5, 1)
}

func (r *Renderer) drawGrid(dc *gg.Context) {
	cell := r.opts.CellSize
	if cell <= 0 {
		return
	}
	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	for x := 0.0; x <= r.field.Width; x += cell {
		dc.DrawLine(x, 0, x, r.field.Height)
		dc.Stroke()
	}
	for y := 0.0; y <= r.field.Height; y += cell {
		dc.DrawLine(0, y, r.field.Width, y)
		dc.Stroke()
	}
}

// drawHUD draws the overlay in screen space
func (r *Renderer) drawHUD(dc *gg.Context, snap *game.GameSnapshot) {
	s := snap.Player.Stats
	line := fmt.Sprintf("Lv %d  XP %d/%d  $%d  Kills %d  HP %g/%g",
		s.Level, s.Experience, s.NextLevelExperience, s.Money, s.Kills, s.Health, s.MaxHealth)
	dc.DrawImage(r.labels.Get(line, HUDTextSize), 12, 8)

	clock := r.labels.Get(snap.Time, HUDTextSize)
	dc.DrawImageAnchored(clock, r.width-12, 8, 1, 0)

	if r.opts.ShowDebug && snap.Debug != "" {
		dc.DrawImageAnchored(r.labels.Get(snap.Debug, HUDTextSize), 12, r.height-8, 0, 1)
	}

	switch {
	case snap.GameOver:
		r.drawBanner(dc, "GAME OVER")
	case snap.Paused:
		r.drawBanner(dc, "PAUSED")
	case snap.Player.LeveledUp:
		dc.DrawImageAnchored(r.labels.Get("LEVEL UP!", HUDTextSize), r.width/2, 8, 0.5, 0)
	}
}

func (r *Renderer) drawBanner(dc *gg.Context, text string) {
	dc.SetColor(color.RGBA{0, 0, 0, 140})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()
	dc.DrawImageAnchored(r.labels.Get(text, BannerTextSize), r.width/2, r.height/2, 0.5, 0.5)
}
