package diff

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// FileChange holds the parsed change set for one file in a unified diff.
// ChangedLines are line numbers in the new (post-image) file, since
// function extraction downstream runs on the target snapshot.
type FileChange struct {
	Path         string
	IsAdded      bool
	IsDeleted    bool
	ChangedLines map[int]struct{}
}

// hunkHeader matches @@ -oldStart,oldLen +newStart,newLen @@ where the
// lengths may be omitted for single-line hunks.
var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Parser turns raw unified-diff text into per-file change records.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse scans git diff output and returns one record per changed file.
// The input may concatenate several diff invocations (e.g. staged +
// unstaged); records for the same path are merged, with changed line
// sets unioned. Binary files produce no changed lines.
func (p *Parser) Parse(raw string) []FileChange {
	var order []string
	byPath := make(map[string]*FileChange)

	var current *FileChange
	var newLine int
	inHunk := false
	binary := false

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "diff --git") {
			current = nil
			inHunk = false
			binary = false
			path := parseFilePath(line)
			if path == "" {
				continue
			}
			fc, ok := byPath[path]
			if !ok {
				fc = &FileChange{Path: path, ChangedLines: make(map[int]struct{})}
				byPath[path] = fc
				order = append(order, path)
			}
			current = fc
			continue
		}

		if current == nil {
			continue
		}

		if strings.HasPrefix(line, "Binary files") || strings.HasPrefix(line, "GIT binary patch") {
			binary = true
			continue
		}

		if strings.HasPrefix(line, "--- ") {
			if strings.Contains(line, "/dev/null") {
				current.IsAdded = true
			}
			continue
		}
		if strings.HasPrefix(line, "+++ ") {
			if strings.Contains(line, "/dev/null") {
				current.IsDeleted = true
			}
			continue
		}

		if m := hunkHeader.FindStringSubmatch(line); m != nil {
			newLine, _ = strconv.Atoi(m[3])
			inHunk = true
			continue
		}

		if !inHunk || binary {
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			current.ChangedLines[newLine] = struct{}{}
			newLine++
		case strings.HasPrefix(line, "-"):
			// old-file line only; no new-file position to record
		case strings.HasPrefix(line, "\\"):
			// "\ No newline at end of file"
		default:
			newLine++
		}
	}

	changes := make([]FileChange, 0, len(order))
	for _, path := range order {
		changes = append(changes, *byPath[path])
	}
	return changes
}

// parseFilePath extracts the path from a "diff --git a/path b/path" line.
func parseFilePath(line string) string {
	parts := strings.Fields(line)
	if len(parts) < 4 {
		return ""
	}
	// Use the b/ side so renames resolve to the post-image path.
	path := parts[3]
	return strings.TrimPrefix(path, "b/")
}
