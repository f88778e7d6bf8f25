package terrain

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Layout is the byte order of the 4 channels of a pixel.
type Layout int

const (
	// LayoutRGBA stores channels as R, G, B, A.
	LayoutRGBA Layout = iota
	// LayoutBGRA stores channels as B, G, R, A.
	LayoutBGRA
)

// String returns the config name of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutRGBA:
		return "rgba"
	case LayoutBGRA:
		return "bgra"
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// ParseLayout parses a layout name as used in config files.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "rgba":
		return LayoutRGBA, nil
	case "bgra":
		return LayoutBGRA, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnsupportedLayout)
}

// ChannelOrder maps logical channels (R, G, B, A) to byte positions within a pixel.
func ChannelOrder(l Layout) ([4]int, error) {
	switch l {
	case LayoutRGBA:
		return [4]int{0, 1, 2, 3}, nil
	case LayoutBGRA:
		return [4]int{2, 1, 0, 3}, nil
	}
	return [4]int{}, fmt.Errorf("%v: %w", l, ErrUnsupportedLayout)
}

// ReadPixel decodes the pixel at byte offset into logical RGBA weights in [0,1].
func ReadPixel(data []byte, offset int, order [4]int) [4]float32 {
	var px [4]float32
	for c, pos := range order {
		px[c] = DecodeWeight(data[offset+pos])
	}
	return px
}

// DecodeWeight converts a stored channel byte to a weight in [0,1].
func DecodeWeight(b uint8) float32 { return float32(b) / channelMaxValue }

// EncodeWeight quantizes a weight to the byte stored in a channel.
func EncodeWeight(v float32) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*channelMaxValue + 0.5)
}

// WritePixel encodes logical RGBA weights into the pixel at byte offset.
func WritePixel(data []byte, offset int, order [4]int, px [4]float32) {
	for c, pos := range order {
		data[offset+pos] = EncodeWeight(px[c])
	}
}

// Generation counts texture revisions of an alpha map.
type Generation struct {
	n atomic.Int64
}

// Increment bumps the generation.
func (g *Generation) Increment() { g.n.Add(1) }

// Decrement rolls the generation back.
func (g *Generation) Decrement() { g.n.Add(-1) }

// Value returns the current generation.
func (g *Generation) Value() int64 { return g.n.Load() }

// AlphaMap is a packed splat texture with 4 layer weights per pixel.
type AlphaMap struct {
	data   []byte
	width  int
	height int
	layout Layout
	dirty  atomic.Bool
	gen    Generation
}

// NewAlphaMap creates a zeroed alpha map.
func NewAlphaMap(width, height int, layout Layout) (*AlphaMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("alpha map %dx%d: %w", width, height, ErrInvalidSize)
	}
	return &AlphaMap{
		data:   make([]byte, width*height*bytesPerPixel),
		width:  width,
		height: height,
		layout: layout,
	}, nil
}

// Layout returns the channel order of the buffer.
func (m *AlphaMap) Layout() Layout { return m.layout }

// Data returns the raw pixel bytes.
func (m *AlphaMap) Data() []byte { return m.data }

// Width returns the width in pixels.
func (m *AlphaMap) Width() int { return m.width }

// Height returns the height in pixels.
func (m *AlphaMap) Height() int { return m.height }

// MarkDirty flags the texture for re-upload.
func (m *AlphaMap) MarkDirty() { m.dirty.Store(true) }

// TakeDirty returns and clears the dirty flag.
func (m *AlphaMap) TakeDirty() bool { return m.dirty.Swap(false) }

// Generation returns the revision counter of this map.
func (m *AlphaMap) Generation() *Generation { return &m.gen }

// Offset returns the byte offset of pixel (x, y), or -1 outside the image.
func (m *AlphaMap) Offset(x, y int) int {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return -1
	}
	return (y*m.width + x) * bytesPerPixel
}

// Pixel returns the logical RGBA weights at (x, y). Outside pixels read as zero.
func (m *AlphaMap) Pixel(x, y int) ([4]float32, error) {
	order, err := ChannelOrder(m.layout)
	if err != nil {
		return [4]float32{}, err
	}
	off := m.Offset(x, y)
	if off < 0 {
		return [4]float32{}, nil
	}
	return ReadPixel(m.data, off, order), nil
}

// Splat is the set of alpha maps painted over one terrain.
type Splat struct {
	maps []*AlphaMap
}

// NewSplat creates count alpha maps of the same size and layout.
func NewSplat(count, width, height int, layout Layout) (*Splat, error) {
	if count < 1 || count > MaxAlphaMaps {
		return nil, fmt.Errorf("splat with %d alpha maps: %w", count, ErrLayerOutOfRange)
	}
	s := &Splat{maps: make([]*AlphaMap, count)}
	for i := range s.maps {
		m, err := NewAlphaMap(width, height, layout)
		if err != nil {
			return nil, err
		}
		s.maps[i] = m
	}
	return s, nil
}

// Maps returns the alpha maps in layer order.
func (s *Splat) Maps() []*AlphaMap { return s.maps }

// Layers returns the number of paintable layers.
func (s *Splat) Layers() int { return len(s.maps) * LayersPerMap }

// Locate returns the alpha map and channel holding a layer.
func (s *Splat) Locate(layer int) (*AlphaMap, int, error) {
	if layer < 0 || layer >= s.Layers() {
		return nil, 0, fmt.Errorf("layer %d of %d: %w", layer, s.Layers(), ErrLayerOutOfRange)
	}
	return s.maps[layer/LayersPerMap], layer % LayersPerMap, nil
}
