package gitx

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// File is one file touched by a commit. Status uses git letters:
// A(dd), M(odify), D(elete), R(ename). OldPath is set for renames.
type File struct {
	Path      string
	OldPath   string
	Status    string
	Additions int
	Deletions int
}

// Commit is a raw history entry as extracted from git log. Date keeps
// git's strict ISO-8601 author date (%aI) untouched; timestamp
// validation happens downstream.
type Commit struct {
	SHA         string
	Date        string
	AuthorName  string
	AuthorEmail string
	Files       []File
}

// recordSep marks the start of a commit in our log format; \x01 never
// appears in paths or author names.
const recordSep = "\x01"

// fieldSep separates header fields.
const fieldSep = "\x1f"

// RepoRoot resolves the git repository root from a given path (or
// current dir).
func RepoRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	out, err := exec.Command("git", "-C", path, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("rev-parse: %w", err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", errors.New("empty git root")
	}
	return root, nil
}

// HeadSHA returns the current HEAD commit hash.
func HeadSHA(repoRoot string) (string, error) {
	out, err := exec.Command("git", "-C", repoRoot, "rev-parse", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("rev-parse HEAD: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ExtractHistory reads the full commit history of the repository in
// chronological order, with per-file change types and line counts.
// git log runs twice: once with --numstat for line counts, once with
// --name-status for change types; the results merge by sha.
func ExtractHistory(repoRoot string) ([]Commit, error) {
	commits, err := extractNumstat(repoRoot)
	if err != nil {
		return nil, err
	}
	statuses, err := extractStatuses(repoRoot)
	if err != nil {
		return nil, err
	}
	for i := range commits {
		c := &commits[i]
		byPath := statuses[c.SHA]
		for j := range c.Files {
			f := &c.Files[j]
			if st, ok := byPath[f.Path]; ok {
				f.Status = st
			} else if f.Status == "" {
				f.Status = "M"
			}
		}
	}
	return commits, nil
}

func extractNumstat(repoRoot string) ([]Commit, error) {
	format := recordSep + "%H" + fieldSep + "%aI" + fieldSep + "%an" + fieldSep + "%ae"
	out, err := gitOutput(repoRoot, "log", "--reverse", "--date-order", "--no-merges",
		"--pretty=format:"+format, "--numstat", "-M")
	if err != nil {
		return nil, err
	}
	return parseNumstatLog(out)
}

func extractStatuses(repoRoot string) (map[string]map[string]string, error) {
	out, err := gitOutput(repoRoot, "log", "--reverse", "--date-order", "--no-merges",
		"--pretty=format:"+recordSep+"%H", "--name-status", "-M")
	if err != nil {
		return nil, err
	}
	return parseNameStatusLog(out)
}

func gitOutput(repoRoot string, args ...string) (string, error) {
	a := append([]string{"-C", repoRoot}, args...)
	cmd := exec.Command("git", a...)
	b, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(b), nil
}

// parseNumstatLog parses the interleaved header/numstat output into
// commits, keeping log order.
func parseNumstatLog(out string) ([]Commit, error) {
	var commits []Commit
	s := bufio.NewScanner(strings.NewReader(out))
	s.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for s.Scan() {
		line := s.Text()
		if strings.HasPrefix(line, recordSep) {
			fields := strings.Split(strings.TrimPrefix(line, recordSep), fieldSep)
			if len(fields) < 4 {
				continue
			}
			commits = append(commits, Commit{
				SHA:         fields[0],
				Date:        fields[1],
				AuthorName:  fields[2],
				AuthorEmail: fields[3],
			})
			continue
		}
		if line == "" || len(commits) == 0 {
			continue
		}
		if f, ok := parseNumstatLine(line); ok {
			c := &commits[len(commits)-1]
			c.Files = append(c.Files, f)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan git log: %w", err)
	}
	return commits, nil
}

// parseNumstatLine parses "adds<TAB>dels<TAB>path". Binary files show
// "-" counts, which map to zero. Rename paths arrive either as
// "old => new" or in the collapsed "pre/{old => new}/post" brace form.
func parseNumstatLine(line string) (File, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return File{}, false
	}
	adds, _ := strconv.Atoi(parts[0]) // "-" parses to 0 for binaries
	dels, _ := strconv.Atoi(parts[1])
	oldPath, newPath := splitRenamePath(parts[2])
	f := File{Path: newPath, Additions: adds, Deletions: dels}
	if oldPath != newPath {
		f.OldPath = oldPath
		f.Status = "R"
	}
	return f, true
}

// splitRenamePath resolves git's rename path notations to (old, new).
// Non-rename paths return the same value twice.
func splitRenamePath(p string) (string, string) {
	if open := strings.Index(p, "{"); open >= 0 {
		rest := p[open:]
		arrow := strings.Index(rest, " => ")
		closing := strings.Index(rest, "}")
		if arrow >= 0 && closing > arrow {
			prefix := p[:open]
			suffix := p[open+closing+1:]
			halves := strings.SplitN(rest[1:closing], " => ", 2)
			return cleanPath(prefix + halves[0] + suffix), cleanPath(prefix + halves[1] + suffix)
		}
	}
	if halves := strings.SplitN(p, " => ", 2); len(halves) == 2 {
		return halves[0], halves[1]
	}
	return p, p
}

// cleanPath collapses the double slashes left when a brace side is
// empty, e.g. "a/{ => b}/c.go".
func cleanPath(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return strings.Trim(p, "/")
}

// parseNameStatusLog maps sha -> path -> status letter.
func parseNameStatusLog(out string) (map[string]map[string]string, error) {
	result := make(map[string]map[string]string)
	var current map[string]string
	s := bufio.NewScanner(strings.NewReader(out))
	s.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for s.Scan() {
		line := s.Text()
		if strings.HasPrefix(line, recordSep) {
			sha := strings.TrimPrefix(line, recordSep)
			current = make(map[string]string)
			result[sha] = current
			continue
		}
		if line == "" || current == nil {
			continue
		}
		if status, path, ok := parseNameStatusLine(line); ok {
			current[path] = status
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan git log: %w", err)
	}
	return result, nil
}

// parseNameStatusLine parses the "M<TAB>path" and "R100<TAB>old<TAB>new"
// forms, returning the status letter and the (new) path.
func parseNameStatusLine(line string) (status, path string, ok bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 2 || parts[0] == "" {
		return "", "", false
	}
	switch parts[0][:1] {
	case "R", "C":
		if len(parts) < 3 {
			return "", "", false
		}
		return "R", parts[2], true
	case "A", "D":
		return parts[0][:1], parts[1], true
	case "M", "T":
		return "M", parts[1], true
	}
	return "", "", false
}
