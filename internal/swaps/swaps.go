package swaps

import (
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
)

// Record is one active swap device or swap file.
type Record struct {
	Path string
}

// ListFunc returns the kernel's active swap table. Swappable for tests.
type ListFunc func() ([]*mem.SwapDevice, error)

// Reader reads the live swap table.
type Reader struct {
	List ListFunc
}

func NewReader() *Reader {
	return &Reader{List: mem.SwapDevices}
}

// Records returns active swaps in table order, excluding zram devices.
// Those are recreated on every boot and must not be persisted. A missing
// or unreadable swap table is not an error, just an empty result.
func (r *Reader) Records() ([]Record, error) {
	devs, err := r.List()
	if err != nil {
		return nil, nil
	}

	var records []Record
	for _, dev := range devs {
		path := Unescape(strings.TrimSpace(dev.Name))
		if path == "" || IsZram(path) {
			continue
		}
		records = append(records, Record{Path: path})
	}
	return records, nil
}

// IsZram reports whether path names a compressed-RAM swap device.
func IsZram(path string) bool {
	return strings.HasPrefix(path, "/dev/zram")
}

// IsFile reports whether the record is a swap file rather than a block
// device.
func (rec Record) IsFile() bool {
	return !strings.HasPrefix(rec.Path, "/dev/")
}

// UnderRoot reports whether the swap belongs to the target root. Swap
// files must live inside the root; block device swap is system-wide and
// always included.
func (rec Record) UnderRoot(root string) bool {
	if !rec.IsFile() {
		return true
	}
	if root == "/" {
		return true
	}
	return rec.Path == root || strings.HasPrefix(rec.Path, root+"/")
}

// Unescape decodes the octal escapes /proc/swaps uses in paths, the same
// scheme as fstab(5) (\040 for space and so on).
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}
