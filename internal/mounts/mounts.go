package mounts

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Record is a single entry from the live mount table. Bind mounts show up
// as separate records sharing a source.
type Record struct {
	Target  string
	Source  string
	FSType  string
	Options string
}

// RunFunc executes an external command and returns its stdout. Swappable
// so tests can stub out findmnt.
type RunFunc func(name string, args ...string) ([]byte, error)

var (
	// ErrToolMissing reports that the findmnt binary could not be found.
	ErrToolMissing = errors.New("findmnt command not found (is util-linux installed?)")
	// ErrToolFailed reports that findmnt ran but did not succeed.
	ErrToolFailed = errors.New("findmnt command failed")
)

// Reader queries the live mount table via findmnt.
type Reader struct {
	FindmntPath string
	Run         RunFunc
}

func NewReader(findmntPath string) *Reader {
	return &Reader{
		FindmntPath: findmntPath,
		Run:         runCommand,
	}
}

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// List returns every mount in table order.
func (r *Reader) List() ([]Record, error) {
	out, err := r.Run(r.FindmntPath, "-rn", "-o", "TARGET,SOURCE,FSTYPE,OPTIONS")
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrToolMissing, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(string(exitErr.Stderr))
			if detail == "" {
				detail = "unknown error"
			}
			return nil, fmt.Errorf("%w: %s", ErrToolFailed, detail)
		}
		return nil, fmt.Errorf("%w: %v", ErrToolFailed, err)
	}

	var records []Record
	for _, line := range strings.Split(string(out), "\n") {
		if rec, ok := parseLine(line); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// parseLine parses one line of findmnt -rn output. Malformed lines and
// lines with empty required fields are dropped.
func parseLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, false
	}

	parts := strings.SplitN(line, " ", 4)
	if len(parts) < 4 {
		return Record{}, false
	}

	rec := Record{
		Target:  Unescape(parts[0]),
		Source:  Unescape(parts[1]),
		FSType:  parts[2],
		Options: parts[3],
	}
	if rec.Target == "" || rec.FSType == "" {
		return Record{}, false
	}
	return rec, true
}

// Unescape decodes the hex escapes findmnt -r uses for characters that
// would break its space-separated output. Backslash must be decoded last
// to avoid double-unescaping.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, `\x20`, " ")
	s = strings.ReplaceAll(s, `\x09`, "\t")
	s = strings.ReplaceAll(s, `\x0a`, "\n")
	s = strings.ReplaceAll(s, `\x0d`, "\r")
	return strings.ReplaceAll(s, `\x5c`, `\`)
}
