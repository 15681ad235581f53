package packaging

import "strings"

// Vars holds the values substituted into the package filename pattern.
type Vars struct {
	Platform       string // %p%
	TargetOS       string // %to%
	TargetCPU      string // %tc%
	Branch         string // %b%
	Revision       string // %r%
	RevisionNumber string // %rn%
	DebianArch     string // %da%
	ShortRevision  string // %sr%
}

// Interpolate expands every occurrence of each placeholder token in
// pattern. Tokens that are not recognized are left verbatim; a pattern
// without tokens passes through unchanged.
func Interpolate(pattern string, v Vars) string {
	return strings.NewReplacer(
		"%p%", v.Platform,
		"%to%", v.TargetOS,
		"%tc%", v.TargetCPU,
		"%b%", v.Branch,
		"%r%", v.Revision,
		"%rn%", v.RevisionNumber,
		"%da%", v.DebianArch,
		"%sr%", v.ShortRevision,
	).Replace(pattern)
}
