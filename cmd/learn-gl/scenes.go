package main

import (
	"errors"
	"fmt"
	"log/slog"

	"learn-gl/internal/assets"
	"learn-gl/internal/demo"
)

// sceneSources names the files a scene may need. Model is required for "model".
type sceneSources struct {
	Texture string
	Model   string
	// ModelSize is the edge length the model is scaled to fit.
	ModelSize float32
}

// loadScene uploads the geometry and textures for scene name. A GL context must be
// current. Release the scene once the loop has closed.
func loadScene(name string, src sceneSources, logger *slog.Logger) (*demo.Scene, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch name {
	case "triangle":
		mesh := assets.NewMesh(demo.TriangleVertices, nil, assets.LayoutPosition)
		s := demo.TriangleScene(mesh)
		s.OnRelease(mesh.Delete)
		return s, nil

	case "quad":
		mesh := assets.NewMesh(demo.QuadVertices, demo.QuadIndices, assets.LayoutPositionUV)
		tex := loadTexture(src.Texture, logger)
		s := demo.QuadScene(mesh, tex)
		s.OnRelease(mesh.Delete)
		s.OnRelease(tex.Delete)
		return s, nil

	case "cubes":
		mesh := assets.NewMesh(demo.CubeVertices, nil, assets.LayoutPositionUV)
		tex := loadTexture(src.Texture, logger)
		s := demo.CubesScene(mesh, tex)
		s.OnRelease(mesh.Delete)
		s.OnRelease(tex.Delete)
		return s, nil

	case "model":
		if src.Model == "" {
			return nil, errors.New("model scene needs a glTF file")
		}
		mesh, geom, err := assets.LoadModel(src.Model)
		if err != nil {
			return nil, err
		}
		size := src.ModelSize
		if size <= 0 {
			size = 2
		}
		logger.Info("model loaded",
			"file", src.Model,
			"vertices", geom.VertexCount(),
			"triangles", len(geom.Indices)/3,
			"uv", geom.HasUV,
		)

		var s *demo.Scene
		if geom.HasUV && src.Texture != "" {
			tex := loadTexture(src.Texture, logger)
			s = demo.ModelScene(mesh, tex, geom.FitTransform(size))
			s.OnRelease(tex.Delete)
		} else {
			s = demo.ModelScene(mesh, nil, geom.FitTransform(size))
		}
		s.OnRelease(mesh.Delete)
		return s, nil
	}
	return nil, fmt.Errorf("unknown scene %q", name)
}

// loadTexture falls back to a checkerboard so a missing image never stops a demo.
func loadTexture(path string, logger *slog.Logger) *assets.Texture {
	if path != "" {
		tex, err := assets.LoadTexture(path)
		if err == nil {
			logger.Debug("texture loaded", "file", path, "width", tex.Width, "height", tex.Height)
			return tex
		}
		logger.Warn("failed to load texture, using checkerboard", "file", path, "error", err)
	}
	return assets.NewTexture(assets.Checkerboard(256, 32))
}
