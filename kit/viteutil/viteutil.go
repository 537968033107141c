// Package viteutil reads Vite build manifests.
package viteutil

import (
	"encoding/json"
	"fmt"
	"html/template"
	"path"
	"slices"

	"github.com/betterhelper/docsite/kit/htmlutil"
	"github.com/spf13/afero"
)

// ManifestPath is where Vite writes the manifest, relative to its outDir.
const ManifestPath = ".vite/manifest.json"

type ManifestChunk struct {
	Src            string   `json:"src"`
	File           string   `json:"file"`
	CSS            []string `json:"css"`
	Assets         []string `json:"assets"`
	IsEntry        bool     `json:"isEntry"`
	Name           string   `json:"name"`
	IsDynamicEntry bool     `json:"isDynamicEntry"`
	Imports        []string `json:"imports"`
	DynamicImports []string `json:"dynamicImports"`
}

type Manifest map[string]ManifestChunk

func ReadManifest(fsys afero.Fs, manifestPath string) (Manifest, error) {
	contents, err := afero.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, err
	}
	return ParseManifest(contents)
}

func ParseManifest(contents []byte) (Manifest, error) {
	manifest := make(Manifest)
	if err := json.Unmarshal(contents, &manifest); err != nil {
		return nil, fmt.Errorf("could not parse vite manifest: %w", err)
	}
	return manifest, nil
}

// Entry looks up a chunk by its source key (e.g. "src/app.tsx").
func (m Manifest) Entry(key string) (ManifestChunk, bool) {
	chunk, ok := m[key]
	return chunk, ok
}

// FindAllCSS returns the stylesheets of the chunk at importPath followed by
// those of its static imports, depth first, without duplicates.
func FindAllCSS(manifest Manifest, importPath string) []string {
	seen := make(map[string]bool)
	var css []string

	var recurse func(ip string)
	recurse = func(ip string) {
		if seen[ip] {
			return
		}
		seen[ip] = true

		chunk, exists := manifest[ip]
		if !exists {
			return
		}
		for _, file := range chunk.CSS {
			if !slices.Contains(css, file) {
				css = append(css, file)
			}
		}
		for _, imp := range chunk.Imports {
			recurse(imp)
		}
	}

	recurse(importPath)
	return css
}

// StylesheetLinks renders one root-relative <link rel="stylesheet"> per file.
func StylesheetLinks(cssFiles []string) (template.HTML, error) {
	els := make([]*htmlutil.Element, 0, len(cssFiles))
	for _, file := range cssFiles {
		els = append(els, htmlutil.StylesheetLink(path.Join("/", file)))
	}
	return htmlutil.RenderElements(els...)
}
