package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.test",
			content: `# Scene: Cornell Box
# Description: Quad light over diffuse walls

size 200 200
camera 0 0 3  0 0 0  0 1 0  45`,
			expected: SceneInfo{
				ID:          "complete_metadata",
				Name:        "Cornell Box",
				Description: "Quad light over diffuse walls",
				Type:        "file",
			},
		},
		{
			name: "leading_blank.test",
			content: `
# Scene: Spheres
size 10 10`,
			expected: SceneInfo{
				ID:   "leading_blank",
				Name: "Spheres",
				Type: "file",
			},
		},
		{
			name:    "no_metadata.test",
			content: `size 10 10`,
			expected: SceneInfo{
				ID:   "no_metadata",
				Name: "no_metadata",
				Type: "file",
			},
		},
		{
			name: "metadata_after_commands.test",
			content: `size 10 10
# Scene: Ignored`,
			expected: SceneInfo{
				ID:   "metadata_after_commands",
				Name: "metadata_after_commands",
				Type: "file",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata failed: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.test":    "# Scene: Beta\nsize 1 1",
		"a.test":    "# Scene: Alpha\nsize 1 1",
		"notes.txt": "# Scene: Not a scene",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	scenes, err := ListSceneFiles(dir)
	if err != nil {
		t.Fatalf("ListSceneFiles failed: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].Name != "Alpha" || scenes[1].Name != "Beta" {
		t.Errorf("Expected scenes sorted by name, got %q, %q", scenes[0].Name, scenes[1].Name)
	}

	missing, err := ListSceneFiles(filepath.Join(dir, "does-not-exist"))
	if err != nil || len(missing) != 0 {
		t.Errorf("Missing directory should give an empty list, got %v, %v", missing, err)
	}
}

func TestListAllScenes(t *testing.T) {
	all, err := ListAllScenes(t.TempDir())
	if err != nil {
		t.Fatalf("ListAllScenes failed: %v", err)
	}
	if len(all) != len(Builtins()) {
		t.Fatalf("Expected only the %d built-in scenes, got %d", len(Builtins()), len(all))
	}
	for _, info := range all {
		if info.Type != "builtin" {
			t.Errorf("Scene %s: expected builtin type, got %s", info.ID, info.Type)
		}
	}
}
