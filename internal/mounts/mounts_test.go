package mounts

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	rec, ok := parseLine("/mnt /dev/sda1 ext4 rw,relatime")
	require.True(t, ok)
	assert.Equal(t, "/mnt", rec.Target)
	assert.Equal(t, "/dev/sda1", rec.Source)
	assert.Equal(t, "ext4", rec.FSType)
	assert.Equal(t, "rw,relatime", rec.Options)

	// Options keep everything after the third space
	rec, ok = parseLine("/mnt/boot /dev/sda2 vfat rw,fmask=0077,dmask=0077")
	require.True(t, ok)
	assert.Equal(t, "vfat", rec.FSType)
	assert.Equal(t, "rw,fmask=0077,dmask=0077", rec.Options)

	_, ok = parseLine("/mnt /dev/sda1")
	assert.False(t, ok)
	_, ok = parseLine("")
	assert.False(t, ok)
	_, ok = parseLine("   ")
	assert.False(t, ok)
}

func TestParseLineEscapedTarget(t *testing.T) {
	rec, ok := parseLine(`/mnt/my\x20disk /dev/sdb1 ext4 rw`)
	require.True(t, ok)
	assert.Equal(t, "/mnt/my disk", rec.Target)
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "/mnt/my disk", Unescape(`/mnt/my\x20disk`))
	assert.Equal(t, "a\tb", Unescape(`a\x09b`))
	assert.Equal(t, "a\nb", Unescape(`a\x0ab`))
	assert.Equal(t, `a\b`, Unescape(`a\x5cb`))
	assert.Equal(t, "/dev/sda1", Unescape("/dev/sda1"))
}

func TestListParsesTableOrder(t *testing.T) {
	out := "/ /dev/vda2 ext4 rw,relatime\n" +
		"/proc proc proc rw,nosuid\n" +
		"/boot /dev/vda1 vfat rw\n"
	r := &Reader{Run: func(name string, args ...string) ([]byte, error) {
		return []byte(out), nil
	}}

	records, err := r.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "/", records[0].Target)
	assert.Equal(t, "/proc", records[1].Target)
	assert.Equal(t, "/boot", records[2].Target)
}

func TestListEmptyOutput(t *testing.T) {
	r := &Reader{Run: func(name string, args ...string) ([]byte, error) {
		return nil, nil
	}}

	records, err := r.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListToolMissing(t *testing.T) {
	r := &Reader{Run: func(name string, args ...string) ([]byte, error) {
		return nil, &exec.Error{Name: "findmnt", Err: exec.ErrNotFound}
	}}

	_, err := r.List()
	assert.ErrorIs(t, err, ErrToolMissing)
}

func TestListToolFailed(t *testing.T) {
	r := &Reader{Run: func(name string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}}

	_, err := r.List()
	assert.ErrorIs(t, err, ErrToolFailed)
}

func TestNewReaderDefaults(t *testing.T) {
	r := NewReader("findmnt")
	assert.Equal(t, "findmnt", r.FindmntPath)
	assert.NotNil(t, r.Run)
}
