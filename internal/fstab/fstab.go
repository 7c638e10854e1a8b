package fstab

import (
	"fmt"
	"strings"
)

// Entry is a single fstab block: a comment naming the original source
// device, followed by one six-field data line.
type Entry struct {
	Comment    string // original device path / mount source
	Identifier string // UUID=... style identifier or raw device path
	Mountpoint string
	FSType     string
	Options    string
	Dump       int
	Pass       int
}

// Column widths are cosmetic only. An UUID= identifier is 41 characters,
// so real entries usually line up; longer fields just push the row out.
const (
	identifierWidth = 41
	mountpointWidth = 15
	fstypeWidth     = 7
	optionsWidth    = 10
)

// String renders the entry as a comment line plus one whitespace-aligned
// fstab data line, newline-terminated.
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", e.Comment)
	fmt.Fprintf(&b, "%-*s %-*s %-*s %-*s %d %d\n",
		identifierWidth, Escape(e.Identifier),
		mountpointWidth, Escape(e.Mountpoint),
		fstypeWidth, e.FSType,
		optionsWidth, e.Options,
		e.Dump, e.Pass)
	return b.String()
}

// Escape octal-escapes characters that fstab(5) treats specially: the
// whitespace field separators, the escape character itself, and a leading
// comment hash.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '\\':
			b.WriteString(`\134`)
		case ' ':
			b.WriteString(`\040`)
		case '\t':
			b.WriteString(`\011`)
		case '\n':
			b.WriteString(`\012`)
		case '\r':
			b.WriteString(`\015`)
		case '#':
			b.WriteString(`\043`)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Target converts an absolute mount target into the path it will have once
// root becomes "/". root must be canonicalized with no trailing slash.
func Target(target, root string) string {
	if target == "" || target == root {
		return "/"
	}
	stripped := strings.TrimPrefix(target, root)
	if stripped == "" {
		return "/"
	}
	if strings.HasPrefix(stripped, "/") {
		return stripped
	}
	return "/" + stripped
}

// Pass returns the fsck pass number for a regular mount: 1 for the root
// filesystem, 2 for everything else. Swap entries set Pass 0 directly.
func Pass(fstabTarget string) int {
	if fstabTarget == "/" {
		return 1
	}
	return 2
}
