// Package platform resolves the host platform and build target.
package platform

import (
	"fmt"
	"strings"
)

// Platform identifies a supported host platform.
type Platform string

const (
	Mac   Platform = "mac"
	Linux Platform = "linux"
	Win   Platform = "win"
)

// DefaultCPU is the target CPU used when none is requested.
const DefaultCPU = "x64"

// Target describes what is being built and where. It is resolved once
// at startup and never mutated afterwards; every downstream stage keys
// its decisions off this record.
type Target struct {
	Platform Platform // host platform
	OS       string   // target OS (linux, android, ios, win, mac)
	CPU      string   // target CPU (x64, x86, arm, arm64)
}

// ResolveHost maps a host identifier string (uname-style, or a value
// like "linux-gnu" from the shell's OSTYPE) to a Platform by prefix.
// Unrecognized identifiers are an error; the caller treats that as
// fatal.
func ResolveHost(hostID string) (Platform, error) {
	id := strings.ToLower(hostID)
	switch {
	case strings.HasPrefix(id, "darwin"):
		return Mac, nil
	case strings.HasPrefix(id, "linux"):
		return Linux, nil
	case strings.HasPrefix(id, "win"), strings.HasPrefix(id, "msys"), strings.HasPrefix(id, "mingw"), strings.HasPrefix(id, "cygwin"):
		return Win, nil
	}
	return "", fmt.Errorf("unsupported host platform: %q", hostID)
}

// NewTarget builds a Target for the given platform, defaulting target
// OS to the host platform and target CPU to x64. Both can be overridden
// independently to cross-compile.
func NewTarget(p Platform, targetOS, targetCPU string) Target {
	if targetOS == "" {
		targetOS = string(p)
	}
	if targetCPU == "" {
		targetCPU = DefaultCPU
	}
	return Target{Platform: p, OS: targetOS, CPU: targetCPU}
}

// DebianArch maps a target CPU to its Debian architecture name, used by
// the %da% package filename token. Unknown CPUs pass through unchanged.
func DebianArch(cpu string) string {
	switch cpu {
	case "x64":
		return "amd64"
	case "x86":
		return "i386"
	case "arm":
		return "armhf"
	case "arm64":
		return "arm64"
	}
	return cpu
}
