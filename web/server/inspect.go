package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	ObjectIndex  int            `json:"objectIndex"`
	Important    bool           `json:"important"`
	MaterialType string         `json:"materialType"`
	GeometryType string         `json:"geometryType"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	FrontFace    bool           `json:"frontFace"`
	Properties   map[string]any `json:"properties"`
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor formats a linear color as an sRGB hex string
func hexColor(c core.Color) string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// extractMaterialInfo describes mat, sampling its textures at the hit
func extractMaterialInfo(mat material.Material, ray core.Ray, hit geometry.Intersection) (string, map[string]any) {
	properties := make(map[string]any)

	switch m := mat.(type) {
	case material.Lambertian:
		albedo := m.Albedo.Sample(ray, hit)
		properties["albedo"] = [3]float64{albedo.R, albedo.G, albedo.B}
		properties["color"] = hexColor(albedo)
		return "lambertian", properties

	case material.Metal:
		albedo := m.Albedo.Sample(ray, hit)
		properties["albedo"] = [3]float64{albedo.R, albedo.G, albedo.B}
		properties["color"] = hexColor(albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case material.Dielectric:
		tint := m.Attenuation.Sample(ray, hit)
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = hexColor(tint)
		return "dielectric", properties

	case material.DiffuseLight:
		emission := m.Emitted(ray, hit)
		properties["emission"] = [3]float64{emission.R, emission.G, emission.B}
		properties["color"] = hexColor(emission)
		return "light", properties

	case material.Isotropic:
		albedo := m.Albedo.Sample(ray, hit)
		properties["albedo"] = [3]float64{albedo.R, albedo.G, albedo.B}
		properties["color"] = hexColor(albedo)
		return "isotropic", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(object *scene.Object) (string, map[string]any) {
	properties := map[string]any{
		"position": vec3Array(object.Transform.Translation),
	}

	switch shape := object.Shape.(type) {
	case geometry.Sphere:
		properties["radius"] = shape.Radius
		return "sphere", properties

	case geometry.Cuboid:
		properties["halfExtents"] = vec3Array(shape.HalfExtents)
		return "cuboid", properties

	case geometry.Quad:
		properties["u"] = vec3Array(shape.U)
		properties["v"] = vec3Array(shape.V)
		properties["area"] = shape.Area()
		return "quad", properties

	case geometry.ConstantMedium:
		properties["density"] = shape.Density
		boundaryType, _ := extractGeometryInfo(&scene.Object{Shape: shape.Boundary, Transform: object.Transform})
		properties["boundary"] = boundaryType
		return "medium", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the ray through the center of pixel (x, y) and returns
// the nearest hit. The sampler is fixed so repeated calls agree.
func inspectPixel(s *scene.Scene, camera *geometry.Camera, x, y int) (core.Ray, scene.Hit, bool) {
	sampler := core.NewSeededSampler(0)
	u := (float64(x) + 0.5) / float64(camera.Width())
	v := (float64(y) + 0.5) / float64(camera.Height())
	ray := camera.Ray(u, v, sampler)

	hit, ok := s.NearestHit(ray, sampler)
	return ray, hit, ok
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid scene parameters: %w", err))
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid x coordinate"))
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid y coordinate"))
		return
	}

	pipeline, err := s.setupRenderingPipeline(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	camera := pipeline.Camera
	if pixelX < 0 || pixelX >= camera.Width() || pixelY < 0 || pixelY >= camera.Height() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("pixel coordinates out of bounds"))
		return
	}

	ray, hit, ok := inspectPixel(pipeline.Scene, camera, pixelX, pixelY)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, ObjectIndex: -1})
		return
	}

	materialType, materialProps := extractMaterialInfo(hit.Object.Material, ray, hit.Intersection)
	geometryType, geometryProps := extractGeometryInfo(hit.Object)
	point := hit.Intersection.Point(ray)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		ObjectIndex:  hit.Index,
		Important:    hit.Object.Important,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec3Array(point),
		Normal:       vec3Array(hit.Intersection.Normal),
		Distance:     point.Subtract(ray.Origin).Length(),
		FrontFace:    hit.Intersection.FrontFace(ray),
		Properties: map[string]any{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
