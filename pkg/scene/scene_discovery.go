package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/geometry"
)

// ErrUnknownScene is returned when a preset name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// Preset is a ready-to-render scene with its suggested camera
type Preset struct {
	Name        string
	Description string
	Camera      geometry.CameraConfig
	Scene       *Scene
}

// SceneInfo describes a built-in scene for listings
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Description string `json:"description"` // Optional description
	Width       int    `json:"width"`       // Default image width
	Height      int    `json:"height"`      // Default image height
	Samples     int    `json:"samples"`     // Default samples per pixel
}

var builtins = map[string]func() Preset{
	"default": NewDefaultScene,
	"test":    NewTestScene,
	"cornell": NewCornellScene,
	"cover1":  NewCover1Scene,
	"cover2":  NewCover2Scene,
	"empty":   NewEmptyScene,
}

// Names returns the registered preset names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load builds the named preset
func Load(name string) (Preset, error) {
	build, ok := builtins[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return build(), nil
}

// ListScenes builds every preset and returns its description, sorted by ID
func ListScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, name := range Names() {
		preset := builtins[name]()
		scenes = append(scenes, SceneInfo{
			ID:          name,
			Description: preset.Description,
			Width:       preset.Camera.Width,
			Height:      preset.Camera.Height,
			Samples:     preset.Camera.Samples,
		})
	}
	return scenes
}
