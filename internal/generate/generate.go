package generate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sigreer/fstabgen/internal/config"
	"github.com/sigreer/fstabgen/internal/filter"
	"github.com/sigreer/fstabgen/internal/fstab"
	"github.com/sigreer/fstabgen/internal/identify"
	"github.com/sigreer/fstabgen/internal/mounts"
	"github.com/sigreer/fstabgen/internal/swaps"
)

// Options configures one snapshot run.
type Options struct {
	Root   string
	Kind   identify.Kind
	Config *config.Config

	// Overridable table sources so tests run without findmnt, blkid or a
	// live swap table.
	Mounts   *mounts.Reader
	Swaps    *swaps.Reader
	Resolver *identify.Resolver
}

// Run executes the snapshot pipeline: validate the root, read the mount
// and swap tables, classify, resolve identifiers, and write the formatted
// blocks to w. Output is buffered and flushed only on success, so a fatal
// condition never leaves partial output behind.
func Run(opts Options, w io.Writer) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{FindmntPath: "findmnt", BlkidPath: "blkid"}
	}

	root, verr := validateRoot(opts.Root)
	if verr != nil {
		return verr
	}

	mountReader := opts.Mounts
	if mountReader == nil {
		mountReader = mounts.NewReader(cfg.FindmntPath)
	}
	swapReader := opts.Swaps
	if swapReader == nil {
		swapReader = swaps.NewReader()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = identify.NewResolver(cfg.BlkidPath)
	}

	records, err := mountReader.List()
	if err != nil {
		if errors.Is(err, mounts.ErrToolMissing) {
			return &Error{Code: CodeFindmntMissing, Message: err.Error()}
		}
		return &Error{Code: CodeFindmntFailed, Message: err.Error()}
	}

	surviving := classify(records, root, cfg.ExtraPseudoFS)
	if len(surviving) == 0 {
		return &Error{
			Code:    CodeNoFilesystems,
			Message: fmt.Sprintf("no filesystems found under '%s' (make sure target filesystems are mounted)", opts.Root),
		}
	}

	var buf bytes.Buffer
	for _, rec := range surviving {
		identifier, err := resolver.Resolve(rec.Source, opts.Kind)
		if err != nil {
			return &Error{Code: CodeBlkidMissing, Message: err.Error()}
		}
		target := fstab.Target(rec.Target, root)
		entry := fstab.Entry{
			Comment:    rec.Source,
			Identifier: identifier,
			Mountpoint: target,
			FSType:     rec.FSType,
			Options:    filter.Options(rec.Options, cfg.ExtraRuntimeOptions),
			Dump:       0,
			Pass:       fstab.Pass(target),
		}
		buf.WriteString(entry.String())
		buf.WriteString("\n")
	}

	swapRecords, _ := swapReader.Records()
	for _, rec := range swapRecords {
		if !rec.UnderRoot(root) {
			continue
		}
		identifier, err := swapIdentifier(rec, root, opts.Kind, resolver)
		if err != nil {
			return &Error{Code: CodeBlkidMissing, Message: err.Error()}
		}
		entry := fstab.Entry{
			Comment:    rec.Path,
			Identifier: identifier,
			Mountpoint: "none",
			FSType:     "swap",
			Options:    "sw",
			Dump:       0,
			Pass:       0,
		}
		buf.WriteString(entry.String())
		buf.WriteString("\n")
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// validateRoot checks the root path and returns it absolute with symlinks
// resolved and no trailing slash.
func validateRoot(root string) (string, *Error) {
	root = strings.TrimSpace(root)
	info, err := os.Stat(root)
	if err != nil {
		return "", &Error{
			Code:    CodeRootNotFound,
			Message: fmt.Sprintf("root directory '%s' does not exist", root),
		}
	}
	if !info.IsDir() {
		return "", &Error{
			Code:    CodeNotADirectory,
			Message: fmt.Sprintf("'%s' is not a directory", root),
		}
	}

	abs, err := filepath.Abs(root)
	if err == nil {
		abs, err = filepath.EvalSymlinks(abs)
	}
	if err != nil {
		return "", &Error{
			Code:    CodeCanonicalize,
			Message: fmt.Sprintf("failed to canonicalize '%s': %v", root, err),
		}
	}

	if abs != "/" {
		abs = strings.TrimRight(abs, "/")
	}
	return abs, nil
}

// classify applies the two inclusion rules in order: drop pseudo
// filesystems, then drop mounts outside the canonicalized root. Duplicate
// targets collapse to their first record; distinct targets sharing a
// source (bind mounts) each survive.
func classify(records []mounts.Record, root string, extraPseudo []string) []mounts.Record {
	seen := make(map[string]bool)
	var surviving []mounts.Record
	for _, rec := range records {
		if filter.IsPseudo(rec.FSType, extraPseudo) {
			continue
		}
		if !filter.UnderRoot(rec.Target, root) {
			continue
		}
		if seen[rec.Target] {
			continue
		}
		seen[rec.Target] = true
		surviving = append(surviving, rec)
	}
	return surviving
}

// swapIdentifier picks the first fstab field for a swap entry: swap files
// use their path as seen from inside the new root, block devices go
// through the usual identifier lookup.
func swapIdentifier(rec swaps.Record, root string, kind identify.Kind, resolver *identify.Resolver) (string, error) {
	if rec.IsFile() {
		return fstab.Target(rec.Path, root), nil
	}
	return resolver.Resolve(rec.Path, kind)
}
