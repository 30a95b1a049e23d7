package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// WorkingTreeRef is the sentinel target identifier reported when a
// comparison runs against uncommitted changes.
const WorkingTreeRef = "working-tree"

// ContentProvider supplies diff text and file snapshots for the two
// endpoints of a comparison. It is injected into the analyzer so tests
// can swap in fakes.
type ContentProvider interface {
	// ResolveRef resolves a ref to its canonical commit SHA. Errors
	// propagate: a comparison cannot proceed without valid endpoints.
	ResolveRef(ctx context.Context, ref string) (string, error)

	// DiffRefs returns diff text between two refs using merge-base
	// (triple-dot) semantics.
	DiffRefs(ctx context.Context, base, target string) (string, error)

	// DiffRange returns diff text for a direct two-dot commit range.
	DiffRange(ctx context.Context, from, to string) (string, error)

	// DiffWorkingTree returns the concatenation of the staged-vs-HEAD
	// and unstaged diffs.
	DiffWorkingTree(ctx context.Context) (string, error)

	// FileAt returns file content at a ref, or the empty string when
	// the path does not exist there. It never fails for a missing path.
	FileAt(ctx context.Context, ref, path string) (string, error)

	// FileInWorkingTree reads current file content from disk, empty if
	// unreadable.
	FileInWorkingTree(path string) (string, error)

	// LastChange returns the author and date of the most recent commit
	// touching the path at the given ref, best-effort.
	LastChange(ctx context.Context, ref, path string) (author, date string)
}

// CLIProvider implements ContentProvider by shelling out to git, the
// same plumbing approach used across the rest of this package.
type CLIProvider struct {
	repoPath string
}

func NewCLIProvider(repoPath string) *CLIProvider {
	return &CLIProvider{repoPath: repoPath}
}

func (p *CLIProvider) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.repoPath
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s failed: %w (stderr: %s)",
				strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return string(output), nil
}

func (p *CLIProvider) ResolveRef(ctx context.Context, ref string) (string, error) {
	out, err := p.git(ctx, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("cannot resolve ref %q: %w", ref, err)
	}
	return strings.TrimSpace(out), nil
}

func (p *CLIProvider) DiffRefs(ctx context.Context, base, target string) (string, error) {
	return p.git(ctx, "diff", base+"..."+target)
}

func (p *CLIProvider) DiffRange(ctx context.Context, from, to string) (string, error) {
	return p.git(ctx, "diff", from+".."+to)
}

func (p *CLIProvider) DiffWorkingTree(ctx context.Context) (string, error) {
	staged, err := p.git(ctx, "diff", "--cached")
	if err != nil {
		return "", err
	}
	unstaged, err := p.git(ctx, "diff")
	if err != nil {
		return "", err
	}
	return staged + unstaged, nil
}

func (p *CLIProvider) FileAt(ctx context.Context, ref, path string) (string, error) {
	out, err := p.git(ctx, "show", ref+":"+path)
	if err != nil {
		// Missing path at this ref is an expected case (added or
		// deleted files); treat it as empty content.
		log.WithField("path", path).WithField("ref", ref).Debug("file absent at ref")
		return "", nil
	}
	return out, nil
}

func (p *CLIProvider) FileInWorkingTree(path string) (string, error) {
	full := path
	if p.repoPath != "" {
		full = filepath.Join(p.repoPath, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		log.WithField("path", path).Debug("unreadable working-tree file, skipping")
		return "", nil
	}
	return string(data), nil
}

func (p *CLIProvider) LastChange(ctx context.Context, ref, path string) (author, date string) {
	out, err := p.git(ctx, "log", "-1", "--format=%an%x09%aI", ref, "--", path)
	if err != nil {
		return "", ""
	}
	parts := strings.SplitN(strings.TrimSpace(out), "\t", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
