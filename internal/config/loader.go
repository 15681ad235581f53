package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/openrtc-io/rtcpack/internal/output"
)

// FileName is the config file name searched for in the current and home
// directories.
const FileName = "rtcpack.toml"

// Loader is responsible for finding, parsing and merging config files.
type Loader struct {
	homeDir    string
	configPath string // explicit --config path
	logger     *output.Logger
}

// NewLoader creates a new config Loader.
func NewLoader(homeDir, configPath string, logger *output.Logger) *Loader {
	return &Loader{
		homeDir:    homeDir,
		configPath: configPath,
		logger:     logger,
	}
}

// Load parses and merges config files in priority order:
// explicit --config path > ./rtcpack.toml > <home>/rtcpack.toml.
// Later (higher priority) files overwrite earlier ones per field.
// Returns the merged FileConfig and the highest-priority file path;
// a missing config file is not an error.
func (l *Loader) Load() (*FileConfig, string, error) {
	var files []string

	homePath := filepath.Join(l.homeDir, FileName)
	if _, err := os.Stat(homePath); err == nil {
		files = append(files, homePath)
	}

	localPath := "./" + FileName
	if _, err := os.Stat(localPath); err == nil {
		if abs, _ := filepath.Abs(localPath); abs != homePath {
			files = append(files, localPath)
		}
	}

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", l.configPath)
		}
		abs, _ := filepath.Abs(l.configPath)
		duplicate := false
		for _, f := range files {
			if a, _ := filepath.Abs(f); a == abs {
				duplicate = true
				break
			}
		}
		if !duplicate {
			files = append(files, l.configPath)
		}
	}

	if len(files) == 0 {
		return &FileConfig{}, "", nil
	}

	var merged FileConfig
	var primary string
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", file, err)
		}

		var cfg FileConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file %s: %w", file, err)
		}

		merge(&merged, &cfg)
		primary = file

		if l.logger != nil {
			l.logger.Debug("Loaded config file: %s", file)
		}
	}

	return &merged, primary, nil
}

// merge merges src into dst. Non-nil values in src overwrite dst.
func merge(dst, src *FileConfig) {
	if src.Home != nil {
		dst.Home = src.Home
	}
	if src.NoColor != nil {
		dst.NoColor = src.NoColor
	}
	if src.Verbose != nil {
		dst.Verbose = src.Verbose
	}
	if src.JSON != nil {
		dst.JSON = src.JSON
	}
	if src.OutDir != nil {
		dst.OutDir = src.OutDir
	}
	if src.RepoURL != nil {
		dst.RepoURL = src.RepoURL
	}
	if src.Branch != nil {
		dst.Branch = src.Branch
	}
	if src.TargetOS != nil {
		dst.TargetOS = src.TargetOS
	}
	if src.TargetCPU != nil {
		dst.TargetCPU = src.TargetCPU
	}
	if src.Configs != nil {
		dst.Configs = src.Configs
	}
	if src.Pattern != nil {
		dst.Pattern = src.Pattern
	}
	if src.DepotToolsDir != nil {
		dst.DepotToolsDir = src.DepotToolsDir
	}
	if src.Revision != nil {
		dst.Revision = src.Revision
	}
}
