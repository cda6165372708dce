package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Description is the parsed content of a scene description file
type Description struct {
	NearPlane      float64
	FarPlane       float64
	FovY           float64 // Vertical field of view in degrees
	AspectRatio    float64
	RecursionDepth int
	ImageWidth     int // Images are square: height equals width

	BoardTileWidth  float64
	BoardAmbient    float64
	BoardDiffuse    float64
	BoardReflection float64

	Objects     []ObjectSpec
	PointLights []PointLightSpec
	SpotLights  []SpotLightSpec
}

// ObjectSpec describes one solid. Which geometry fields are meaningful depends on Type.
type ObjectSpec struct {
	Type     string    // "sphere", "cube" or "pyramid"
	Position core.Vec3 // Sphere center, cube bottom-left-front corner or pyramid base center
	Radius   float64   // sphere
	Side     float64   // cube
	Width    float64   // pyramid base width
	Height   float64   // pyramid height

	Color      core.Color
	Ambient    float64
	Diffuse    float64
	Specular   float64
	Reflective float64
	Shininess  float64
}

// PointLightSpec describes an omnidirectional light
type PointLightSpec struct {
	Position core.Vec3
	Falloff  float64
}

// SpotLightSpec describes a cone-restricted light
type SpotLightSpec struct {
	Position  core.Vec3
	Falloff   float64
	Direction core.Vec3
	Cutoff    float64 // Half-angle in degrees
}

// descriptionToken is a whitespace-separated word with its source line for error messages
type descriptionToken struct {
	text string
	line int
}

// descriptionParser walks the token stream of a description file
type descriptionParser struct {
	tokens []descriptionToken
	pos    int
}

// ParseDescription parses a description file from an io.Reader. The format is a
// whitespace-separated token stream; text after '#' on a line is ignored.
func ParseDescription(reader io.Reader) (*Description, error) {
	p := &descriptionParser{}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Fields(line) {
			p.tokens = append(p.tokens, descriptionToken{text: field, line: lineNumber})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading description: %w", err)
	}

	desc, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		return nil, fmt.Errorf("line %d: unexpected trailing token %q", tok.line, tok.text)
	}
	return desc, nil
}

// LoadDescription loads and parses a description file
func LoadDescription(filename string) (*Description, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open description file: %w", err)
	}
	defer file.Close()

	desc, err := ParseDescription(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return desc, nil
}

func (p *descriptionParser) parse() (*Description, error) {
	desc := &Description{}
	var err error

	if err = p.floats(&desc.NearPlane, &desc.FarPlane, &desc.FovY, &desc.AspectRatio); err != nil {
		return nil, fmt.Errorf("camera parameters: %w", err)
	}
	if desc.RecursionDepth, err = p.integer("recursion depth"); err != nil {
		return nil, err
	}
	if desc.ImageWidth, err = p.integer("image width"); err != nil {
		return nil, err
	}
	if err = p.floats(&desc.BoardTileWidth, &desc.BoardAmbient, &desc.BoardDiffuse, &desc.BoardReflection); err != nil {
		return nil, fmt.Errorf("board parameters: %w", err)
	}

	count, err := p.count("object")
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		obj, err := p.object()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i+1, err)
		}
		desc.Objects = append(desc.Objects, obj)
	}

	if count, err = p.count("point light"); err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		var light PointLightSpec
		if err := p.floats(&light.Position.X, &light.Position.Y, &light.Position.Z, &light.Falloff); err != nil {
			return nil, fmt.Errorf("point light %d: %w", i+1, err)
		}
		desc.PointLights = append(desc.PointLights, light)
	}

	// The spot light section may be omitted entirely
	if p.pos == len(p.tokens) {
		return desc, nil
	}
	if count, err = p.count("spot light"); err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		var light SpotLightSpec
		err := p.floats(
			&light.Position.X, &light.Position.Y, &light.Position.Z,
			&light.Falloff,
			&light.Direction.X, &light.Direction.Y, &light.Direction.Z,
			&light.Cutoff,
		)
		if err != nil {
			return nil, fmt.Errorf("spot light %d: %w", i+1, err)
		}
		desc.SpotLights = append(desc.SpotLights, light)
	}

	return desc, nil
}

func (p *descriptionParser) object() (ObjectSpec, error) {
	var obj ObjectSpec
	tok, err := p.next()
	if err != nil {
		return obj, err
	}
	obj.Type = strings.ToLower(tok.text)

	pos := &obj.Position
	switch obj.Type {
	case "sphere":
		err = p.floats(&pos.X, &pos.Y, &pos.Z, &obj.Radius)
	case "cube":
		err = p.floats(&pos.X, &pos.Y, &pos.Z, &obj.Side)
	case "pyramid":
		err = p.floats(&pos.X, &pos.Y, &pos.Z, &obj.Width, &obj.Height)
	default:
		return obj, fmt.Errorf("line %d: unknown object type %q", tok.line, tok.text)
	}
	if err != nil {
		return obj, fmt.Errorf("%s geometry: %w", obj.Type, err)
	}

	err = p.floats(
		&obj.Color.R, &obj.Color.G, &obj.Color.B,
		&obj.Ambient, &obj.Diffuse, &obj.Specular, &obj.Reflective,
		&obj.Shininess,
	)
	if err != nil {
		return obj, fmt.Errorf("%s material: %w", obj.Type, err)
	}
	return obj, nil
}

func (p *descriptionParser) next() (descriptionToken, error) {
	if p.pos >= len(p.tokens) {
		return descriptionToken{}, io.ErrUnexpectedEOF
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, nil
}

func (p *descriptionParser) floats(targets ...*float64) error {
	for _, target := range targets {
		tok, err := p.next()
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid number %q", tok.line, tok.text)
		}
		*target = value
	}
	return nil
}

func (p *descriptionParser) integer(name string) (int, error) {
	tok, err := p.next()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	value, err := strconv.Atoi(tok.text)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s %q", tok.line, name, tok.text)
	}
	return value, nil
}

func (p *descriptionParser) count(name string) (int, error) {
	n, err := p.integer(name + " count")
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s count must be non-negative, got %d", name, n)
	}
	return n, nil
}

// validateFilePath rejects paths that are not plain description files
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	cleanPath := filepath.Clean(filename)
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".txt") {
		return fmt.Errorf("invalid file type: only .txt description files are allowed")
	}

	if len(cleanPath) > 4096 {
		return fmt.Errorf("file path too long")
	}

	return nil
}
