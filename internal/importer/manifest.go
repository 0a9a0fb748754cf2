// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDir is where the seed CSV files live unless the manifest says otherwise.
const DefaultDir = "static/data"

// Manifest selects where the CSV files are read from.
//
//	dir: static/data
//	files:
//	  users: people.csv
//	  comments: replies.csv
type Manifest struct {
	Dir   string            `yaml:"dir"`
	Files map[string]string `yaml:"files"`
}

// DefaultManifest reads every dataset from [DefaultDir] under its usual file name.
func DefaultManifest() Manifest {
	return Manifest{Dir: DefaultDir, Files: map[string]string{}}
}

// LoadManifest reads a YAML manifest. An empty path yields [DefaultManifest].
func LoadManifest(path string) (Manifest, error) {
	manifest := DefaultManifest()
	if path == "" {
		return manifest, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return manifest, fmt.Errorf("importer: failed to read manifest: %w", err)
	}

	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("importer: failed to parse manifest: %w", err)
	}

	if manifest.Dir == "" {
		manifest.Dir = DefaultDir
	}
	if manifest.Files == nil {
		manifest.Files = map[string]string{}
	}

	for name := range manifest.Files {
		if _, ok := datasetByName(name); !ok {
			return manifest, fmt.Errorf("importer: manifest names unknown dataset %q", name)
		}
	}

	return manifest, nil
}

// Path returns the CSV path of a dataset.
func (manifest Manifest) Path(set dataset) string {
	file := set.file
	if override := manifest.Files[set.name]; override != "" {
		file = override
	}
	return filepath.Join(manifest.Dir, file)
}
