package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/remeh/sizedwaitgroup"
)

// Ghost sprites for remote players. Six 16x16 frames: down, up, side, then
// the three mid-stride counterparts. Remote players render as translucent
// ghosts so they never blend in with the game's own sprites.
var ghostFrames [6]*ebiten.Image

const ghostFrameCount = 6

var (
	ghostBody    = color.NRGBA{0xE8, 0xE8, 0xF8, 0xB4}
	ghostOutline = color.NRGBA{0x40, 0x40, 0x68, 0xB4}
	ghostEye     = color.NRGBA{0x20, 0x20, 0x38, 0xC8}
)

// bakeGhostFrames renders all frames at startup. The frames are
// independent, so bake them a few at a time.
func bakeGhostFrames() {
	swg := sizedwaitgroup.New(3)
	for i := 0; i < ghostFrameCount; i++ {
		swg.Add()
		go func(frame int) {
			defer swg.Done()
			ghostFrames[frame] = ebiten.NewImageFromImage(bakeGhostFrame(frame))
		}(i)
	}
	swg.Wait()
}

// bakeGhostFrame draws one frame into a plain RGBA image. The shapes are
// deliberately crude: a rounded body, eyes only when facing the camera,
// and a skirt that alternates on stride frames.
func bakeGhostFrame(frame int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
	facing := frame % 3  // 0 down, 1 up, 2 side
	stride := frame >= 3 // mid-stride row

	for y := 2; y < 14; y++ {
		for x := 3; x < 13; x++ {
			edge := x == 3 || x == 12 || y == 2
			if y >= 12 {
				// Wavy hem, shifted one pixel on stride frames.
				phase := x
				if stride {
					phase++
				}
				if phase%2 == 0 {
					continue
				}
				edge = true
			}
			if edge {
				img.Set(x, y, ghostOutline)
			} else {
				img.Set(x, y, ghostBody)
			}
		}
	}

	switch facing {
	case 0: // facing the camera
		img.Set(6, 6, ghostEye)
		img.Set(9, 6, ghostEye)
	case 2: // side profile, drawn facing left; the right frame flips
		img.Set(5, 6, ghostEye)
	}
	return img
}
