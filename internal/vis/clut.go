package vis

import "github.com/lucasb-eyer/go-colorful"

// clut is a precomputed hue/lightness color table. Entries are HSLuv at full
// saturation converted to RGB and then squared, approximating gamma-2
// decoding for the strip. Built once; read-only afterwards.
type clut struct {
	lut [clutHues][clutValues][3]float64
}

const (
	clutHues   = 360
	clutValues = 256
)

func newClut() *clut {
	c := &clut{}
	for h := 0; h < clutHues; h++ {
		for v := 0; v < clutValues; v++ {
			col := colorful.HSLuv(float64(h), 1, float64(v)/clutValues)
			c.lut[h][v] = [3]float64{col.R * col.R, col.G * col.G, col.B * col.B}
		}
	}
	return c
}

// lookup returns the (r, g, b) triple for a hue in turns and a value in
// [0, 1]. Channels are in [0, 1].
func (c *clut) lookup(h, v float64) (float64, float64, float64) {
	hi := int(h*clutHues) % clutHues
	if hi < 0 {
		hi += clutHues
	}
	vi := int(v * clutValues)
	if vi > clutValues-1 {
		vi = clutValues - 1
	}
	if vi < 0 {
		vi = 0
	}
	e := c.lut[hi][vi]
	return e[0], e[1], e[2]
}
