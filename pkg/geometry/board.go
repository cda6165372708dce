package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// DefaultTileCount is the number of tiles the board extends from the origin along each axis
const DefaultTileCount = 100

// Board is the checkered ground on the z = 0 plane. It is conceptually infinite
// but intersections are bounded to TileCount tiles in every direction.
type Board struct {
	surface
	TileWidth  float64
	TileHeight float64
	TileCount  int
	Colors     [2]core.Color        // Even and odd tile colors
	Textures   [2]*material.Texture // Even and odd tile texel buffers
	Textured   bool
	extent     Rect
}

// NewBoard creates a white/black board of square tiles
func NewBoard(tileSize float64, mat material.Material) *Board {
	return NewBoardWithExtent(tileSize, tileSize, DefaultTileCount, mat)
}

// NewBoardWithExtent creates a board with rectangular tiles bounded to tileCount tiles per direction
func NewBoardWithExtent(tileWidth, tileHeight float64, tileCount int, mat material.Material) *Board {
	w := float64(tileCount) * tileWidth
	h := float64(tileCount) * tileHeight
	return &Board{
		surface:    surface{mat: mat},
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		TileCount:  tileCount,
		Colors:     [2]core.Color{core.White, core.Black},
		extent:     NewRect(core.NewVec3(-w, -h, 0), core.NewVec3(w, h, 0)),
	}
}

// SetTextures enables texture mode with the texel buffers for white (even) and black (odd) tiles
func (b *Board) SetTextures(white, black *material.Texture) {
	b.Textures = [2]*material.Texture{white, black}
	b.Textured = true
}

// Kind implements Object
func (b *Board) Kind() Kind { return KindBoard }

// Intersect hits the z = 0 plane inside the board's finite extent
func (b *Board) Intersect(ray core.Ray) (float64, bool) {
	return b.extent.Intersect(ray)
}

// NormalAt returns +Z, flipped for rays arriving from below
func (b *Board) NormalAt(point, incident core.Vec3) core.Vec3 {
	return faceForward(core.NewVec3(0, 0, 1), incident)
}

// tile returns the tile index parity (0 even, 1 odd) and the fractional
// tile-local coordinates of point
func (b *Board) tile(point core.Vec3) (int, float64, float64) {
	fx := point.X / b.TileWidth
	fy := point.Y / b.TileHeight
	ix, iy := math.Floor(fx), math.Floor(fy)

	parity := int(math.Mod(ix+iy, 2))
	if parity < 0 {
		parity = -parity
	}
	return parity, fx - ix, fy - iy
}

// SurfaceColorAt alternates the two tile colors by floor(x/w)+floor(y/h) parity.
// In texture mode it samples the tile's texel buffer instead; a missing buffer
// is a configuration error and panics.
func (b *Board) SurfaceColorAt(point core.Vec3) core.Color {
	parity, u, v := b.tile(point)
	if !b.Textured {
		return b.Colors[parity]
	}

	texture := b.Textures[parity]
	if texture == nil {
		panic(fmt.Sprintf("board: texture mode enabled without a texel buffer for tile parity %d", parity))
	}
	return texture.Sample(u, v)
}

// Validate checks the board's geometry, material and texture configuration
func (b *Board) Validate() error {
	if b.TileWidth <= 0 || b.TileHeight <= 0 {
		return fmt.Errorf("board tile size must be positive, got %g x %g", b.TileWidth, b.TileHeight)
	}
	if b.TileCount <= 0 {
		return fmt.Errorf("board tile count must be positive, got %d", b.TileCount)
	}
	if b.Textured && (b.Textures[0] == nil || b.Textures[1] == nil) {
		return fmt.Errorf("board texture mode requires both white and black texel buffers")
	}
	return b.mat.Validate()
}
