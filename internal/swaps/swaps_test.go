package swaps

import (
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsExcludesZram(t *testing.T) {
	r := &Reader{List: func() ([]*mem.SwapDevice, error) {
		return []*mem.SwapDevice{
			{Name: "/dev/vda3"},
			{Name: "/dev/zram0"},
		}, nil
	}}

	records, err := r.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/dev/vda3", records[0].Path)
}

func TestRecordsTableOrder(t *testing.T) {
	r := &Reader{List: func() ([]*mem.SwapDevice, error) {
		return []*mem.SwapDevice{
			{Name: "/dev/vda3"},
			{Name: "/swapfile"},
		}, nil
	}}

	records, err := r.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "/dev/vda3", records[0].Path)
	assert.Equal(t, "/swapfile", records[1].Path)
}

func TestRecordsNoSwapTable(t *testing.T) {
	r := &Reader{List: func() ([]*mem.SwapDevice, error) {
		return nil, errors.New("open /proc/swaps: no such file or directory")
	}}

	records, err := r.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordsUnescapesPaths(t *testing.T) {
	r := &Reader{List: func() ([]*mem.SwapDevice, error) {
		return []*mem.SwapDevice{{Name: `/mnt/my\040swap`}}, nil
	}}

	records, err := r.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/mnt/my swap", records[0].Path)
}

func TestIsZram(t *testing.T) {
	assert.True(t, IsZram("/dev/zram0"))
	assert.True(t, IsZram("/dev/zram123"))
	assert.False(t, IsZram("/dev/sda1"))
	assert.False(t, IsZram("/dev/nvme0n1p1"))
	assert.False(t, IsZram("/swapfile"))
}

func TestIsFile(t *testing.T) {
	assert.True(t, Record{Path: "/swapfile"}.IsFile())
	assert.True(t, Record{Path: "/var/swap"}.IsFile())
	assert.False(t, Record{Path: "/dev/sda2"}.IsFile())
}

func TestUnderRoot(t *testing.T) {
	block := Record{Path: "/dev/sda2"}
	file := Record{Path: "/mnt/swapfile"}
	other := Record{Path: "/other/swapfile"}

	// Block device swap is system-wide
	assert.True(t, block.UnderRoot("/mnt"))
	assert.True(t, block.UnderRoot("/other"))

	// Swap files must live inside the root
	assert.True(t, file.UnderRoot("/mnt"))
	assert.False(t, file.UnderRoot("/other"))
	assert.True(t, other.UnderRoot("/other"))
	assert.False(t, other.UnderRoot("/mnt"))

	assert.True(t, file.UnderRoot("/"))
	assert.True(t, other.UnderRoot("/"))
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "/mnt/my disk", Unescape(`/mnt/my\040disk`))
	assert.Equal(t, "/mnt/tab\there", Unescape(`/mnt/tab\011here`))
	assert.Equal(t, "/swapfile", Unescape("/swapfile"))
	assert.Equal(t, "/mnt/a b c", Unescape(`/mnt/a\040b\040c`))

	// Incomplete escapes stay as-is
	assert.Equal(t, `/mnt/x\04`, Unescape(`/mnt/x\04`))
}
