package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// ResolveScene creates a scene from a built-in id, a path to a scene file,
// or the name of a scene file in scenesDir
func ResolveScene(name, scenesDir string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}

	if s, err := scene.NewBuiltin(name); err == nil {
		return s, nil
	}

	path := name
	if !strings.HasSuffix(name, scene.SceneFileExt) {
		path = filepath.Join(scenesDir, name+scene.SceneFileExt)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("unknown scene %q", name)
		}
	}

	s, err := LoadSceneFile(path)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), scene.SceneFileExt)
	}
	return s, nil
}
