package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ManifestFile describes one file written for a run.
type ManifestFile struct {
	Name   string `json:"name"`
	Bytes  int    `json:"bytes"`
	SHA256 string `json:"sha256"`
}

// RunManifest records what a setrun invocation produced.
type RunManifest struct {
	RunID     string         `json:"run_id"`
	Package   string         `json:"package"`
	CreatedAt time.Time      `json:"created_at"`
	OutputDir string         `json:"output_dir"`
	Files     []ManifestFile `json:"files"`
	Storm     *StormSummary  `json:"storm,omitempty"`
}

// NewRunManifest builds a manifest from rendered file contents keyed by file
// name. Files are listed in name order.
func NewRunManifest(pkg, outDir string, files map[string][]byte, storm *StormSummary) RunManifest {
	m := RunManifest{
		RunID:     uuid.NewString(),
		Package:   strings.ToLower(pkg),
		CreatedAt: Now(),
		OutputDir: outDir,
		Storm:     storm,
	}
	for name, b := range files {
		sum := sha256.Sum256(b)
		m.Files = append(m.Files, ManifestFile{Name: name, Bytes: len(b), SHA256: hex.EncodeToString(sum[:])})
	}
	slices.SortFunc(m.Files, func(a, b ManifestFile) int { return strings.Compare(a.Name, b.Name) })
	return m
}

// File returns the manifest entry for name.
func (m RunManifest) File(name string) (ManifestFile, bool) {
	for _, f := range m.Files {
		if f.Name == name {
			return f, true
		}
	}
	return ManifestFile{}, false
}
