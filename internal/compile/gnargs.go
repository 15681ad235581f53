package compile

import (
	"sort"
	"strconv"
	"strings"
)

// Args collects GN argument assignments. Rendering is deterministic
// (sorted by key) so generated build directories are reproducible and
// the tests can assert on exact invocations.
type Args struct {
	values map[string]string
}

// NewArgs returns an empty argument set.
func NewArgs() *Args {
	return &Args{values: make(map[string]string)}
}

// SetBool sets key=true/false.
func (a *Args) SetBool(key string, value bool) {
	a.values[key] = strconv.FormatBool(value)
}

// SetInt sets key=<n>.
func (a *Args) SetInt(key string, value int) {
	a.values[key] = strconv.Itoa(value)
}

// SetString sets key="value" (GN string literals are quoted).
func (a *Args) SetString(key, value string) {
	a.values[key] = strconv.Quote(value)
}

// Has reports whether key is set.
func (a *Args) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// String renders the arguments as a single space-separated GN --args
// value.
func (a *Args) String() string {
	keys := make([]string, 0, len(a.values))
	for k := range a.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+a.values[k])
	}
	return strings.Join(parts, " ")
}
