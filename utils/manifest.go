package utils

import (
	"encoding/json"
	"log/slog"
	"os"
)

// DefaultManifestPath is where the Vite build writes its manifest
const DefaultManifestPath = "static/dist/.vite/manifest.json"

// fallbackScript is served when no build manifest is available (development)
const fallbackScript = "/static/js/main.js"

// ManifestEntry represents a Vite manifest entry
type ManifestEntry struct {
	File    string   `json:"file"`
	Name    string   `json:"name"`
	Src     string   `json:"src"`
	IsEntry bool     `json:"isEntry"`
	CSS     []string `json:"css"`
}

// ViteManifest holds the parsed Vite manifest
type ViteManifest map[string]ManifestEntry

// Assets are the bundle paths the home page links to
type Assets struct {
	MainScript string
	Styles     []string
}

// LoadViteManifest reads and parses the manifest at path
func LoadViteManifest(path string) (ViteManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest ViteManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// ResolveAssets returns the timetable bundle paths from the manifest at path,
// falling back to the unbundled script when the manifest is missing or incomplete
func ResolveAssets(path string, logger *slog.Logger) Assets {
	manifest, err := LoadViteManifest(path)
	if err != nil {
		logger.Warn("using fallback asset paths", "error", err, "path", path)
		return Assets{MainScript: fallbackScript}
	}

	entry, ok := manifest["src/main.ts"]
	if !ok {
		logger.Warn("main entry not found in manifest, using fallback")
		return Assets{MainScript: fallbackScript}
	}

	assets := Assets{MainScript: "/static/dist/" + entry.File}
	for _, css := range entry.CSS {
		assets.Styles = append(assets.Styles, "/static/dist/"+css)
	}

	logger.Info("vite manifest loaded", "entries", len(manifest))
	return assets
}
