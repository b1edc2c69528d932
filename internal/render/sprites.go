package render

import (
	"image"
	"image/color"

	"survivors/internal/game"

	"github.com/fogleman/gg"
)

// Palette
var (
	colorBackground = color.RGBA{18, 18, 30, 255}
	colorGrid       = color.RGBA{32, 32, 48, 255}
	colorPlayer     = color.RGBA{70, 140, 255, 255}
	colorEnemy      = color.RGBA{220, 60, 60, 255}
	colorAmmo       = color.RGBA{255, 230, 90, 255}
	colorMoney      = color.RGBA{240, 190, 40, 255}
	colorExperience = color.RGBA{80, 220, 120, 255}
	colorText       = color.RGBA{245, 245, 250, 255}
	colorOutline    = color.RGBA{0, 0, 0, 200}
)

// DefaultSprites draws placeholder artwork for every sprite kind. Facing
// sprites have their eye on the left so mirroring is visible.
func DefaultSprites() game.SpriteSet {
	return game.SpriteSet{
		game.SpritePlayer:         drawCharacter(int(game.PlayerSize.X), colorPlayer, true),
		game.SpriteEnemy:          drawCharacter(int(game.EnemySize.X), colorEnemy, false),
		game.SpriteAmmo:           drawCoin(int(game.NormalAmmo.Size.X), colorAmmo, 1),
		game.SpriteMoney:          drawCoin(int(game.DropSize.X), colorMoney, 1),
		game.SpriteMoneyPile:      drawCoin(int(game.DropSize.X), colorMoney, 3),
		game.SpriteExperience:     drawGem(int(game.DropSize.X), colorExperience, 0.6),
		game.SpriteExperiencePile: drawGem(int(game.DropSize.X), colorExperience, 1),
	}
}

func drawCharacter(size int, body color.Color, square bool) image.Image {
	dc := gg.NewContext(size, size)
	s := float64(size)

	dc.SetColor(body)
	if square {
		dc.DrawRoundedRectangle(1, 1, s-2, s-2, s/5)
	} else {
		dc.DrawCircle(s/2, s/2, s/2-1)
	}
	dc.Fill()

	// Eye
	dc.SetColor(color.White)
	dc.DrawCircle(s*0.3, s*0.38, s*0.14)
	dc.Fill()
	dc.SetColor(color.Black)
	dc.DrawCircle(s*0.26, s*0.38, s*0.06)
	dc.Fill()

	return dc.Image()
}

func drawCoin(size int, c color.Color, stack int) image.Image {
	dc := gg.NewContext(size, size)
	s := float64(size)
	r := s / 2
	if stack > 1 {
		r = s / 3
	}

	for i := 0; i < stack; i++ {
		x := s / 2
		y := s - r - float64(i)*r/2
		if stack > 1 {
			x = r + float64(i)*(s-2*r)/float64(stack-1)
		}
		dc.SetColor(c)
		dc.DrawCircle(x, y, r-0.5)
		dc.Fill()
		dc.SetColor(colorOutline)
		dc.SetLineWidth(1)
		dc.DrawCircle(x, y, r-0.5)
		dc.Stroke()
	}
	return dc.Image()
}

func drawGem(size int, c color.Color, scale float64) image.Image {
	dc := gg.NewContext(size, size)
	s := float64(size)
	h := s / 2 * scale

	dc.MoveTo(s/2, s/2-h)
	dc.LineTo(s/2+h, s/2)
	dc.LineTo(s/2, s/2+h)
	dc.LineTo(s/2-h, s/2)
	dc.ClosePath()
	dc.SetColor(c)
	dc.Fill()

	return dc.Image()
}
