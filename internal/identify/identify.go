package identify

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// Kind selects which persistent identifier blkid is asked for.
type Kind int

const (
	UUID Kind = iota
	Label
	PartUUID
	PartLabel
)

// Tag returns the blkid tag name, which doubles as the fstab field prefix.
func (k Kind) Tag() string {
	switch k {
	case Label:
		return "LABEL"
	case PartUUID:
		return "PARTUUID"
	case PartLabel:
		return "PARTLABEL"
	default:
		return "UUID"
	}
}

// ErrToolMissing reports that the blkid binary could not be found. Without
// it almost no entries can be identified, so the caller aborts the run.
var ErrToolMissing = errors.New("blkid command not found (is util-linux installed?)")

// RunFunc executes an external command and returns its stdout. Swappable
// so tests can stub out blkid.
type RunFunc func(name string, args ...string) ([]byte, error)

// Resolver looks up persistent identifiers for block devices via blkid.
type Resolver struct {
	BlkidPath string
	Run       RunFunc
}

func NewResolver(blkidPath string) *Resolver {
	return &Resolver{
		BlkidPath: blkidPath,
		Run:       runCommand,
	}
}

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Resolve returns the fstab identifier field for a mount source. Sources
// that already carry an identifier pass through untouched; block devices
// are looked up with blkid; everything else (network mounts, bind mount
// directories) is used as-is. A device with no value for the requested
// kind falls back to its raw path so the run never fails on a single
// unidentified device. The only error is a missing blkid binary.
func (r *Resolver) Resolve(source string, kind Kind) (string, error) {
	if source == "" {
		return "none", nil
	}

	if hasIdentifier(source) {
		return source, nil
	}

	device := DevicePath(source)
	if device == "" {
		return source, nil
	}

	if !isBlockDevice(device) {
		return source, nil
	}

	value, err := r.lookup(device, kind.Tag())
	if err != nil {
		return "", err
	}
	if value == "" {
		log.Printf("no %s for %s, falling back to device path", kind.Tag(), device)
		return device, nil
	}
	return fmt.Sprintf("%s=%s", kind.Tag(), value), nil
}

// lookup asks blkid for a single tag value. An empty string with nil error
// means the device has no value for that tag (blkid exits non-zero for
// that case too, so exit status alone is not a failure).
func (r *Resolver) lookup(device, tag string) (string, error) {
	out, err := r.Run(r.BlkidPath, "-s", tag, "-o", "value", device)
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrToolMissing, err)
		}
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

// DevicePath strips btrfs subvolume notation like /dev/sda1[/subvol] down
// to the base device path.
func DevicePath(source string) string {
	if i := strings.Index(source, "["); i >= 0 {
		return source[:i]
	}
	return source
}

func hasIdentifier(source string) bool {
	for _, prefix := range []string{"UUID=", "LABEL=", "PARTUUID=", "PARTLABEL="} {
		if strings.HasPrefix(source, prefix) {
			return true
		}
	}
	return false
}

// isBlockDevice decides whether a source is worth handing to blkid. The
// /dev/ prefix covers devices inside a chroot where the node may not be
// visible to us; the stat catches block device nodes living elsewhere.
func isBlockDevice(path string) bool {
	if strings.HasPrefix(path, "/dev/") {
		return true
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK
}
