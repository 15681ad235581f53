package packaging

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/openrtc-io/rtcpack/internal/helpers"
)

// Manifest is the flat record describing a produced package. It is
// written as indented JSON next to the archive, overwriting any prior
// manifest of the same name.
type Manifest struct {
	File           string `json:"file"`
	BuildID        string `json:"build_id"`
	BuildDate      string `json:"build_date"`
	Branch         string `json:"branch,omitempty"`
	Revision       string `json:"revision"`
	RevisionNumber int    `json:"revision_number"`
	Checksum       string `json:"checksum"`
	TargetOS       string `json:"target_os"`
	TargetCPU      string `json:"target_cpu"`
}

// NewManifest fills in the generated fields (build id, archive
// checksum) and returns the completed record.
func NewManifest(archivePath string, m Manifest) (*Manifest, error) {
	sum, err := checksumFile(archivePath)
	if err != nil {
		return nil, err
	}
	m.Checksum = sum
	m.BuildID = uuid.NewString()
	return &m, nil
}

// Write persists the manifest to path, replacing any existing file.
func (m *Manifest) Write(path string) error {
	return helpers.SaveJSON(path, m, 0644)
}

// checksumFile computes the SHA256 hash of a file as a hex string.
func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to read archive: %w", err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
