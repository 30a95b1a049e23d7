package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// DetectGitRepo checks that the current directory is inside a git
// working tree.
func DetectGitRepo() error {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("not a git repository: %w", err)
	}
	return nil
}

// FindGitRoot returns the root directory of the git repository.
func FindGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to locate repository root: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CurrentBranch returns the name of the checked-out branch.
func CurrentBranch() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
