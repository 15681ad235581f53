package revision

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/output"
)

// commitPositionRE matches the "{#NNN}" marker Gerrit appends to the
// Cr-Commit-Position footer of every commit message.
var commitPositionRE = regexp.MustCompile(`\{#(\d+)\}`)

// Resolver resolves branches and revisions against a remote repository.
type Resolver struct {
	repoURL    string
	exec       executor.CommandExecutor
	httpClient *http.Client
	logger     *output.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets a custom HTTP client for the remote log lookup.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = client
	}
}

// NewResolver creates a Resolver for the given repository URL.
func NewResolver(repoURL string, exec executor.CommandExecutor, logger *output.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = output.DefaultLogger
	}
	r := &Resolver{
		repoURL:    repoURL,
		exec:       exec,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve determines the revision to build. If sha is non-empty it is
// used as-is (revision override); otherwise the branch head is looked
// up, or the remote HEAD when branch is empty too. The commit position
// lookup always runs, since the package name depends on it.
func (r *Resolver) Resolve(ctx context.Context, branch, sha string) (*Revision, error) {
	if sha == "" {
		var err error
		if branch != "" {
			sha, err = r.resolveBranch(ctx, branch)
		} else {
			sha, err = r.resolveHead(ctx)
		}
		if err != nil {
			return nil, err
		}
	}
	if len(sha) < 7 {
		return nil, fmt.Errorf("revision %q is too short to be a commit identifier", sha)
	}

	number, err := r.commitPosition(ctx, sha)
	if err != nil {
		return nil, fmt.Errorf("failed to look up revision number for %s: %w", sha, err)
	}

	return &Revision{SHA: sha, Number: number, Short: sha[:7]}, nil
}

// resolveBranch finds the head commit of a branch via ls-remote. An
// exact ref match wins over the remote's reporting order: refs/heads
// first, then refs/branch-heads, then refs/tags, then the first line as
// a last resort.
func (r *Resolver) resolveBranch(ctx context.Context, branch string) (string, error) {
	out, err := r.exec.Output(ctx, "", "git", "ls-remote", r.repoURL, branch)
	if err != nil {
		return "", fmt.Errorf("failed to query remote for branch %s: %w", branch, err)
	}

	refs := parseLsRemote(out)
	if len(refs) == 0 {
		return "", fmt.Errorf("branch not found on remote: %s", branch)
	}

	for _, want := range []string{
		"refs/heads/" + branch,
		"refs/branch-heads/" + branch,
		"refs/tags/" + branch,
	} {
		for _, ref := range refs {
			if ref.name == want {
				return ref.sha, nil
			}
		}
	}

	r.logger.Debug("No exact ref match for %s, using first of %d results", branch, len(refs))
	return refs[0].sha, nil
}

// resolveHead returns the commit the remote's default HEAD points at.
func (r *Resolver) resolveHead(ctx context.Context) (string, error) {
	out, err := r.exec.Output(ctx, "", "git", "ls-remote", r.repoURL, "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to query remote HEAD: %w", err)
	}
	refs := parseLsRemote(out)
	if len(refs) == 0 {
		return "", fmt.Errorf("remote reported no HEAD for %s", r.repoURL)
	}
	return refs[0].sha, nil
}

// commitPosition fetches the commit log entry from the Gitiles endpoint
// and extracts the ordinal revision number from the "{#NNN}" marker on
// the last line of the message. The body arrives base64-encoded
// (?format=TEXT).
func (r *Resolver) commitPosition(ctx context.Context, sha string) (int, error) {
	url := fmt.Sprintf("%s/+/%s?format=TEXT", strings.TrimSuffix(r.repoURL, "/"), sha)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("remote log request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("remote log request returned %s", resp.Status)
	}

	encoded, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read remote log: %w", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		return 0, fmt.Errorf("failed to decode remote log: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(decoded)), "\n")
	last := lines[len(lines)-1]
	m := commitPositionRE.FindStringSubmatch(last)
	if m == nil {
		return 0, fmt.Errorf("no commit position marker in log entry for %s", sha)
	}
	return strconv.Atoi(m[1])
}

type remoteRef struct {
	sha  string
	name string
}

// parseLsRemote parses "sha\trefname" lines from git ls-remote output.
func parseLsRemote(out []byte) []remoteRef {
	var refs []remoteRef
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 1 || fields[0] == "" {
			continue
		}
		ref := remoteRef{sha: fields[0]}
		if len(fields) > 1 {
			ref.name = fields[1]
		}
		refs = append(refs, ref)
	}
	return refs
}
