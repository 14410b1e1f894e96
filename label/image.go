package label

import "image"

// Image places a decoded bitmap into a target rectangle. The bitmap is
// owned by the element; constructing one without a bitmap is rejected
// by the Builder. Src records where the bitmap came from and is only
// consulted by the persisted form.
type Image struct {
	Src      string
	Bitmap   image.Image
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64
}

func (i *Image) Draw(s Surface, _ any) error {
	return drawRotated(s, i.Rotation, i.X, i.Y, func() error {
		return s.Image(i.X, i.Y, i.Width, i.Height, i.Bitmap)
	})
}

func (i *Image) Scale(factor float64) {
	i.X *= factor
	i.Y *= factor
	i.Width *= factor
	i.Height *= factor
}

func (i *Image) MeasuredHeight() float64 { return i.Height }

func (i *Image) MeasuredWidth(Backend) (float64, error) { return i.Width, nil }

func (i *Image) Position() (float64, float64) { return i.X, i.Y }

func (i *Image) SetPosition(x, y float64) { i.X, i.Y = x, y }
