package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrInvalidScene is returned for scene files that cannot be turned into a scene
var ErrInvalidScene = errors.New("invalid scene file")

// Camera defaults applied to fields a scene file leaves out
const (
	defaultVFov    = 90
	defaultWidth   = 400
	defaultHeight  = 300
	defaultSamples = 100
)

// sceneFile is the YAML document layout
type sceneFile struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Camera      cameraSpec   `yaml:"camera"`
	Background  []colorValue `yaml:"background"`
	Objects     []objectSpec `yaml:"objects"`
}

type cameraSpec struct {
	From          vec3Value  `yaml:"from"`
	At            vec3Value  `yaml:"at"`
	Up            *vec3Value `yaml:"up"`
	VFov          float64    `yaml:"vfov"`
	Aperture      float64    `yaml:"aperture"`
	FocusDistance float64    `yaml:"focus_distance"`
	ShutterSpeed  float64    `yaml:"shutter_speed"`
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	Samples       int        `yaml:"samples"`
}

type objectSpec struct {
	Shape     shapeSpec    `yaml:"shape"`
	Material  materialSpec `yaml:"material"`
	Position  vec3Value    `yaml:"position"`
	Rotation  vec3Value    `yaml:"rotation"` // Axis scaled by the angle in radians
	Important *bool        `yaml:"important"`
}

type shapeSpec struct {
	Type        string     `yaml:"type"`
	Radius      float64    `yaml:"radius"`
	HalfExtents vec3Value  `yaml:"half_extents"`
	U           vec3Value  `yaml:"u"`
	V           vec3Value  `yaml:"v"`
	Density     float64    `yaml:"density"`
	Boundary    *shapeSpec `yaml:"boundary"`
}

type materialSpec struct {
	Type            string       `yaml:"type"`
	Albedo          *textureSpec `yaml:"albedo"`
	Emit            *textureSpec `yaml:"emit"`
	Attenuation     *textureSpec `yaml:"attenuation"`
	Fuzz            float64      `yaml:"fuzz"`
	RefractiveIndex float64      `yaml:"index"`
}

// textureSpec accepts either a full mapping or a bare color as shorthand for a solid texture
type textureSpec struct {
	Type  string       `yaml:"type"`
	Color *colorValue  `yaml:"color"`
	Even  *textureSpec `yaml:"even"`
	Odd   *textureSpec `yaml:"odd"`
	Size  float64      `yaml:"size"`
	Stops []colorValue `yaml:"stops"`
	Scale *vec3Value   `yaml:"scale"`
	Seed  int64        `yaml:"seed"`
	UseUV bool         `yaml:"use_uv"`
	Path  string       `yaml:"path"`
	Max   float64      `yaml:"max"`
}

func (t *textureSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		var c colorValue
		if err := node.Decode(&c); err != nil {
			return err
		}
		*t = textureSpec{Type: "solid", Color: &c}
		return nil
	}
	type plain textureSpec
	return node.Decode((*plain)(t))
}

// vec3Value decodes [x, y, z]
type vec3Value core.Vec3

func (v *vec3Value) UnmarshalYAML(node *yaml.Node) error {
	var xyz []float64
	if err := node.Decode(&xyz); err != nil {
		return err
	}
	if len(xyz) != 3 {
		return fmt.Errorf("line %d: expected [x, y, z], got %d values", node.Line, len(xyz))
	}
	*v = vec3Value(core.NewVec3(xyz[0], xyz[1], xyz[2]))
	return nil
}

// colorValue decodes linear [r, g, b] or sRGB "#rrggbb"
type colorValue core.Color

func (c *colorValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := core.ParseHexColor(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*c = colorValue(parsed)
		return nil
	}

	var rgb []float64
	if err := node.Decode(&rgb); err != nil {
		return err
	}
	if len(rgb) != 3 {
		return fmt.Errorf("line %d: expected [r, g, b], got %d values", node.Line, len(rgb))
	}
	*c = colorValue(core.NewColor(rgb[0], rgb[1], rgb[2]))
	return nil
}

// LoadSceneFile reads a YAML scene description. Image texture paths are
// resolved relative to the file's directory.
func LoadSceneFile(path string) (scene.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scene.Preset{}, fmt.Errorf("failed to read scene file: %w", err)
	}

	preset, err := ParseScene(data, filepath.Dir(path))
	if err != nil {
		return scene.Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	if preset.Name == "" {
		preset.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return preset, nil
}

// ParseScene builds a scene and camera from YAML. baseDir anchors relative image paths.
func ParseScene(data []byte, baseDir string) (scene.Preset, error) {
	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return scene.Preset{}, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	b := builder{baseDir: baseDir}
	objects := make([]scene.Object, 0, len(file.Objects))
	for i, spec := range file.Objects {
		object, err := b.object(spec)
		if err != nil {
			return scene.Preset{}, fmt.Errorf("%w: object %d: %v", ErrInvalidScene, i, err)
		}
		objects = append(objects, object)
	}

	background := scene.DefaultBackground()
	if len(file.Background) > 0 {
		background = core.NewGradient(colors(file.Background)...)
	}

	camera := file.Camera.config()
	if _, err := geometry.NewCamera(camera); err != nil {
		return scene.Preset{}, fmt.Errorf("%w: camera: %w", ErrInvalidScene, err)
	}

	return scene.Preset{
		Name:        file.Name,
		Description: file.Description,
		Camera:      camera,
		Scene:       scene.New(objects, background),
	}, nil
}

func (c cameraSpec) config() geometry.CameraConfig {
	config := geometry.CameraConfig{
		From:          core.Vec3(c.From),
		At:            core.Vec3(c.At),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          c.VFov,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
		ShutterSpeed:  c.ShutterSpeed,
		Width:         c.Width,
		Height:        c.Height,
		Samples:       c.Samples,
	}
	if c.Up != nil {
		config.Up = core.Vec3(*c.Up)
	}
	if config.VFov == 0 {
		config.VFov = defaultVFov
	}
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.Samples == 0 {
		config.Samples = defaultSamples
	}
	return config
}

// builder turns decoded specs into scene values, caching loaded images
type builder struct {
	baseDir string
	images  map[string]*material.ImageTexture
}

func (b *builder) object(spec objectSpec) (scene.Object, error) {
	shape, err := b.shape(spec.Shape)
	if err != nil {
		return scene.Object{}, err
	}
	mat, err := b.material(spec.Material)
	if err != nil {
		return scene.Object{}, err
	}

	object := scene.NewObject(shape, mat).
		WithTransform(core.FromScaledAxis(core.Vec3(spec.Position), core.Vec3(spec.Rotation)))
	if spec.Important != nil {
		object = object.WithImportance(*spec.Important)
	}
	return object, nil
}

func (b *builder) shape(spec shapeSpec) (geometry.Shape, error) {
	switch spec.Type {
	case "sphere":
		if spec.Radius == 0 {
			return nil, errors.New("sphere needs a non-zero radius")
		}
		return geometry.NewSphere(spec.Radius), nil
	case "cuboid", "box":
		half := core.Vec3(spec.HalfExtents)
		if half.X == 0 || half.Y == 0 || half.Z == 0 {
			return nil, errors.New("cuboid needs non-zero half_extents")
		}
		return geometry.NewCuboid(half), nil
	case "quad":
		u, v := core.Vec3(spec.U), core.Vec3(spec.V)
		if u.Cross(v).IsZero() {
			return nil, errors.New("quad edges u and v must not be parallel")
		}
		return geometry.NewQuad(u, v), nil
	case "medium":
		if spec.Boundary == nil {
			return nil, errors.New("medium needs a boundary shape")
		}
		boundary, err := b.shape(*spec.Boundary)
		if err != nil {
			return nil, fmt.Errorf("medium boundary: %w", err)
		}
		return geometry.NewConstantMedium(boundary, spec.Density), nil
	default:
		return nil, fmt.Errorf("unknown shape type %q", spec.Type)
	}
}

func (b *builder) material(spec materialSpec) (material.Material, error) {
	switch spec.Type {
	case "lambertian", "diffuse":
		albedo, err := b.texture(spec.Albedo)
		if err != nil {
			return nil, err
		}
		return material.NewLambertian(albedo), nil
	case "metal":
		albedo, err := b.texture(spec.Albedo)
		if err != nil {
			return nil, err
		}
		return material.NewMetal(albedo, spec.Fuzz), nil
	case "dielectric", "glass":
		if spec.RefractiveIndex <= 0 {
			return nil, errors.New("dielectric needs a positive index")
		}
		d := material.NewDielectric(spec.RefractiveIndex)
		if spec.Attenuation != nil {
			attenuation, err := b.texture(spec.Attenuation)
			if err != nil {
				return nil, err
			}
			d.Attenuation = attenuation
		}
		return d, nil
	case "light", "diffuse_light":
		emit, err := b.texture(spec.Emit)
		if err != nil {
			return nil, err
		}
		return material.NewDiffuseLight(emit), nil
	case "isotropic":
		albedo, err := b.texture(spec.Albedo)
		if err != nil {
			return nil, err
		}
		return material.NewIsotropic(albedo), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", spec.Type)
	}
}

func (b *builder) texture(spec *textureSpec) (material.Texture, error) {
	if spec == nil {
		return nil, errors.New("missing texture")
	}

	switch spec.Type {
	case "solid":
		if spec.Color == nil {
			return nil, errors.New("solid texture needs a color")
		}
		return material.Solid{Color: core.Color(*spec.Color)}, nil
	case "checker", "checkerboard":
		even, err := b.texture(spec.Even)
		if err != nil {
			return nil, fmt.Errorf("checker even: %w", err)
		}
		odd, err := b.texture(spec.Odd)
		if err != nil {
			return nil, fmt.Errorf("checker odd: %w", err)
		}
		size := spec.Size
		if size == 0 {
			size = 1
		}
		return material.NewCheckerboard(even, odd, size), nil
	case "gradient":
		return material.NewGradientTexture(colors(spec.Stops)...), nil
	case "noise":
		scale := core.NewVec3(1, 1, 1)
		if spec.Scale != nil {
			scale = core.Vec3(*spec.Scale)
		}
		noise := material.NewNoise(spec.Seed, scale, colors(spec.Stops)...)
		noise.UseUV = spec.UseUV
		return noise, nil
	case "image":
		return b.image(spec.Path)
	case "debug_uv":
		return material.DebugUV{}, nil
	case "debug_point":
		return material.DebugPoint{}, nil
	case "debug_normal":
		return material.DebugNormal{}, nil
	case "debug_distance":
		return material.DebugDistance{Max: spec.Max}, nil
	default:
		return nil, fmt.Errorf("unknown texture type %q", spec.Type)
	}
}

func (b *builder) image(path string) (*material.ImageTexture, error) {
	if path == "" {
		return nil, errors.New("image texture needs a path")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.baseDir, path)
	}
	if tex, ok := b.images[path]; ok {
		return tex, nil
	}

	tex, err := LoadImageTexture(path)
	if err != nil {
		return nil, err
	}
	if b.images == nil {
		b.images = make(map[string]*material.ImageTexture)
	}
	b.images[path] = tex
	return tex, nil
}

func colors(values []colorValue) []core.Color {
	stops := make([]core.Color, len(values))
	for i, c := range values {
		stops[i] = core.Color(c)
	}
	return stops
}
