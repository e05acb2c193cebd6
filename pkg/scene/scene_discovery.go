package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned by Create for names that match no scene
var ErrUnknownScene = errors.New("unknown scene")

// Built-in scene identifiers
const (
	PreviewSceneID     = "preview"
	RandomSceneID      = "random"
	HollowGlassSceneID = "hollow-glass"
)

const builtInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the JSON file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// BuiltInScenes lists the scenes that need no file
func BuiltInScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          PreviewSceneID,
			Name:        "Preview",
			Description: "Ground with diffuse, metal and glass spheres",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          RandomSceneID,
			Name:        "Random Spheres",
			Description: "Hundreds of small random spheres around three large ones",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		{
			ID:          HollowGlassSceneID,
			Name:        "Hollow Glass",
			Description: "Preview scene with a thin glass shell",
			Group:       builtInGroup,
			Type:        "builtin",
		},
	}
}

// Create builds a scene by name: one of the built-in IDs or a path to a
// .json scene file. seed only affects the random scene.
func Create(name string, seed int64) (*Scene, error) {
	switch name {
	case PreviewSceneID:
		return NewPreviewScene(), nil
	case RandomSceneID:
		return NewRandomScene(rand.New(rand.NewSource(seed))), nil
	case HollowGlassSceneID:
		return NewHollowGlassScene(), nil
	}

	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return Load(name)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// ListJSONScenes scans dir for .json scene files. A missing directory yields
// an empty list.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Skip unreadable files but keep the rest
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name, description and group of a JSON scene,
// falling back to values derived from the file name
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "json",
		FilePath: filePath,
	}

	desc, err := LoadDescription(filePath)
	if err != nil {
		return sceneInfo, err
	}

	if desc.Name != "" {
		sceneInfo.Name = desc.Name
	}
	if desc.Group != "" {
		sceneInfo.Group = desc.Group
	}
	sceneInfo.Description = desc.Description

	return sceneInfo, nil
}

// ListAllScenes returns built-in scenes and the JSON scenes found in dir,
// grouped by category with the built-in group first
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListJSONScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	allScenes := append(BuiltInScenes(), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-trio" -> "Glass Trio"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
