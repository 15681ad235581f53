// Package revision resolves a repository ref to an exact revision and
// its ordinal commit position.
package revision

// Revision identifies the exact source revision a run builds. All three
// fields are resolved once and immutable for the remainder of the run.
type Revision struct {
	SHA    string // full commit identifier
	Number int    // ordinal commit position from the remote log
	Short  string // first 7 characters of SHA
}
