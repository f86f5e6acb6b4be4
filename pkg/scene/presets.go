package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// defaultShutter is the reserved exposure time carried by preset cameras
const defaultShutter = 1.0 / 500.0

// presetSeed fixes the layout of randomly placed preset objects
const presetSeed = 1

// NewDefaultScene creates a glass ball over a gradient ball next to a noisy metal cube
func NewDefaultScene() Preset {
	camera := geometry.CameraConfig{
		From:         core.NewVec3(1, 1, 1),
		At:           core.NewVec3(-0.5, 0, -1),
		Up:           core.NewVec3(0, 1, 0),
		VFov:         90,
		ShutterSpeed: defaultShutter,
		Width:        500,
		Height:       500,
		Samples:      100,
	}

	checker := material.NewCheckerboard(material.NewSolid(0, 0, 0), material.NewSolid(1, 1, 1), 10)
	rainbow := material.NewGradientTexture(core.NewColor(1, 0, 0), core.NewColor(0, 1, 0), core.NewColor(0, 0, 1))
	bronzeNoise := material.NewNoise(presetSeed, core.NewVec3(1, 1, 1), core.Black, core.NewColor(0.8, 0.6, 0.3), core.Black)

	objects := []Object{
		NewObject(geometry.NewSphere(100), material.NewLambertian(checker)).At(core.NewVec3(0, -100.5, 0)),
		NewObject(geometry.NewSphere(1), material.NewLambertian(rainbow)).At(core.NewVec3(0, 0, -1)),
		NewObject(geometry.NewSphere(1.1), material.NewDielectric(1.52)).At(core.NewVec3(0, 0, -1)),
		NewObject(geometry.NewCuboid(core.NewVec3(1, 1, 1)), material.NewMetal(bronzeNoise, 0.01)).At(core.NewVec3(-3, 0, -1)),
	}

	return Preset{
		Name:        "default",
		Description: "Glass over a gradient ball beside a noise-textured metal cube",
		Camera:      camera,
		Scene:       New(objects, DefaultBackground()),
	}
}

// NewTestScene creates a minimal glass and metal scene for quick checks
func NewTestScene() Preset {
	camera := geometry.CameraConfig{
		From:         core.NewVec3(1, 1, 1),
		At:           core.NewVec3(0, 0, -1),
		Up:           core.NewVec3(0, 1, 0),
		VFov:         90,
		ShutterSpeed: defaultShutter,
		Width:        500,
		Height:       500,
		Samples:      200,
	}

	checker := material.NewCheckerboard(material.NewSolid(0, 0, 0), material.NewSolid(1, 1, 1), 10)
	objects := []Object{
		NewObject(geometry.NewSphere(100), material.NewLambertian(checker)).At(core.NewVec3(0, -100.5, 0)),
		NewObject(geometry.NewSphere(1), material.NewDielectric(1.52)).At(core.NewVec3(0, 0, -1)),
		NewObject(geometry.NewCuboid(core.NewVec3(1, 1, 1)), material.NewMetal(material.NewSolid(0.8, 0.6, 0.3), 0)).At(core.NewVec3(-3, 0, -1)),
	}

	return Preset{
		Name:        "test",
		Description: "Checkerboard floor, glass ball and mirror cube",
		Camera:      camera,
		Scene:       New(objects, DefaultBackground()),
	}
}

// NewCornellScene creates a small Cornell box lit by a bright ball near the ceiling
func NewCornellScene() Preset {
	camera := geometry.CameraConfig{
		From:         core.NewVec3(0, 0, -3.75),
		At:           core.NewVec3(0, 0, 1),
		Up:           core.NewVec3(0, 1, 0),
		VFov:         40,
		ShutterSpeed: defaultShutter,
		Width:        200,
		Height:       200,
		Samples:      200,
	}

	white := material.NewLambertian(material.Solid{Color: core.FromSRGB(0.73, 0.73, 0.73)})
	green := material.NewLambertian(material.Solid{Color: core.FromSRGB(0.12, 0.45, 0.15)})
	red := material.NewLambertian(material.Solid{Color: core.FromSRGB(0.65, 0.05, 0.05)})

	objects := []Object{
		NewObject(geometry.NewCuboid(core.NewVec3(1, 1, 0.05)), white).At(core.NewVec3(0, 0, 1)),  // back
		NewObject(geometry.NewCuboid(core.NewVec3(1, 0.05, 1)), white).At(core.NewVec3(0, 1, 0)),  // top
		NewObject(geometry.NewCuboid(core.NewVec3(1, 0.05, 1)), white).At(core.NewVec3(0, -1, 0)), // bottom
		NewObject(geometry.NewCuboid(core.NewVec3(0.05, 1, 1)), green).At(core.NewVec3(1, 0, 0)),  // left
		NewObject(geometry.NewCuboid(core.NewVec3(0.05, 1, 1)), red).At(core.NewVec3(-1, 0, 0)),   // right
		NewObject(geometry.NewSphere(0.1), material.NewDiffuseLight(material.NewSolid(15, 15, 15))).At(core.NewVec3(0, 0.6, 0)),
		NewObject(geometry.NewSphere(0.3), material.NewLambertian(material.NewSolid(0.6, 0.8, 0.7))).At(core.NewVec3(-0.3, -0.6, -0.3)),
		NewObject(geometry.NewCuboid(core.NewVec3(0.3, 0.6, 0.3)), material.NewLambertian(material.NewSolid(1, 1, 1))).
			At(core.NewVec3(0.3, -0.4, 0.3)).
			Rotated(core.NewVec3(0, 1, 0), 0.3),
	}

	return Preset{
		Name:        "cornell",
		Description: "Cornell box with a small spherical light",
		Camera:      camera,
		Scene:       New(objects, core.NewGradient(core.Black)),
	}
}

// NewCover1Scene creates a field of small random balls around three large ones
func NewCover1Scene() Preset {
	camera := geometry.CameraConfig{
		From:         core.NewVec3(0, 1.5, 0),
		At:           core.NewVec3(0, 1, -6),
		Up:           core.NewVec3(0, 1, 0),
		VFov:         45,
		Aperture:     0.1,
		ShutterSpeed: defaultShutter,
		Width:        1000,
		Height:       500,
		Samples:      1000,
	}

	random := rand.New(rand.NewSource(presetSeed))
	between := func(lo, hi float64) float64 { return lo + random.Float64()*(hi-lo) }

	objects := []Object{
		NewObject(geometry.NewSphere(10000), material.NewLambertian(material.NewSolid(0.5, 0.5, 0.5))).At(core.NewVec3(0, -10000, 0)),
		NewObject(geometry.NewSphere(1), material.NewLambertian(material.NewSolid(0.4, 0.2, 0.1))).At(core.NewVec3(-1, 1, -12)),
		NewObject(geometry.NewSphere(1), material.NewDielectric(1.52)).At(core.NewVec3(0, 1, -8)),
		// Inward-facing inner shell makes the glass ball a bubble
		NewObject(geometry.NewSphere(-0.9), material.NewDielectric(1.52)).At(core.NewVec3(0, 1, -8)),
		NewObject(geometry.NewSphere(1), material.NewMetal(material.NewSolid(0.8, 0.6, 0.4), 0)).At(core.NewVec3(1, 1, -4)),
	}

	for x := -10; x < 10; x++ {
		for z := -20; z < 0; z++ {
			position := core.NewVec3(float64(x)+random.Float64(), 0.2, float64(z)+random.Float64())

			var mat material.Material
			switch choice := random.Float64(); {
			case choice < 0.5:
				mat = material.NewLambertian(material.NewSolid(random.Float64(), random.Float64(), random.Float64()))
			case choice < 0.75:
				albedo := material.NewSolid(between(0.5, 1), between(0.5, 1), between(0.5, 1))
				mat = material.NewMetal(albedo, random.Float64())
			default:
				mat = material.Dielectric{
					RefractiveIndex: between(1.5, 3),
					Attenuation:     material.NewSolid(between(0.9, 1), between(0.9, 1), between(0.9, 1)),
				}
			}
			// Small glass balls are too many to sample individually
			objects = append(objects, NewObject(geometry.NewSphere(0.2), mat).At(position).WithImportance(false))
		}
	}

	return Preset{
		Name:        "cover1",
		Description: "Field of random diffuse, metal and glass balls",
		Camera:      camera,
		Scene:       New(objects, DefaultBackground()),
	}
}

// NewCover2Scene creates a dim scene with fog, a noise ball, a block floor and a ball cluster
func NewCover2Scene() Preset {
	camera := geometry.CameraConfig{
		From:         core.NewVec3(0, 2, 0),
		At:           core.NewVec3(1, 2, -6),
		Up:           core.NewVec3(0, 1, 0),
		VFov:         90,
		ShutterSpeed: defaultShutter,
		Width:        500,
		Height:       500,
		Samples:      1000,
	}

	random := rand.New(rand.NewSource(presetSeed))
	marble := material.NewNoise(presetSeed, core.NewVec3(1, 5, 1), core.NewColor(1, 0, 0), core.NewColor(0, 0, 1))

	objects := []Object{
		NewObject(geometry.NewCuboid(core.NewVec3(2, 2, 2)), material.NewDiffuseLight(material.NewSolid(7, 7, 7))).At(core.NewVec3(0, 7, -5)),
		NewObject(geometry.NewConstantMedium(geometry.NewSphere(1), 0.2), material.NewIsotropic(material.NewSolid(1, 1, 1))).At(core.NewVec3(2, 1, -5)),
		NewObject(geometry.NewSphere(1), material.NewLambertian(marble)).At(core.NewVec3(-1, 1, -4)),
	}

	floor := material.NewLambertian(material.NewSolid(0.5, 0.8, 0.5))
	for x := -20; x < 20; x++ {
		for z := -40; z < 0; z++ {
			position := core.NewVec3(float64(x), random.Float64()-2, float64(z))
			objects = append(objects, NewObject(geometry.NewCuboid(core.NewVec3(1, 1, 1)), floor).At(position))
		}
	}

	white := material.NewLambertian(material.NewSolid(1, 1, 1))
	for i := 0; i < 1000; i++ {
		offset := core.NewVec3(random.Float64(), random.Float64(), random.Float64()).Multiply(2)
		objects = append(objects, NewObject(geometry.NewSphere(0.5), white).At(core.NewVec3(3, 2, -5).Add(offset)))
	}

	return Preset{
		Name:        "cover2",
		Description: "Fog ball, marbled ball and a block floor under a box light",
		Camera:      camera,
		Scene:       New(objects, core.NewGradient(core.NewColor(0.01, 0.01, 0.01))),
	}
}

// NewEmptyScene creates a scene with no objects: every pixel shows the background
func NewEmptyScene() Preset {
	camera := geometry.CameraConfig{
		From:         core.NewVec3(1, 1, 1),
		At:           core.NewVec3(-0.5, 0, -1),
		Up:           core.NewVec3(0, 1, 0),
		VFov:         90,
		ShutterSpeed: defaultShutter,
		Width:        500,
		Height:       500,
		Samples:      100,
	}

	return Preset{
		Name:        "empty",
		Description: "Background gradient only",
		Camera:      camera,
		Scene:       New(nil, DefaultBackground()),
	}
}
