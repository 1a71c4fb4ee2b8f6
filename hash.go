package kvs

import (
	"fmt"
	"hash/adler32"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// hashHex computes the Adler-32 checksum over data and formats it as the
// 8-character lowercase hex string the .hash sibling files store.
func hashHex(data []byte) string {
	sum := adler32.Checksum(data)
	return fmt.Sprintf("%08x", sum)
}

// verifyHash reports whether hashFileContents (tolerating a trailing
// newline) matches the recomputed hash of payload.
func verifyHash(payload []byte, hashFileContents []byte) bool {
	want := hashHex(payload)
	got := strings.TrimSpace(string(hashFileContents))
	return got == want
}

// atomicWriteFile writes data to a temporary file in dir, fsyncs it, and
// renames it into place at finalPath. The temp file lives in the same
// directory as finalPath so the rename is same-filesystem.
func atomicWriteFile(dir, finalPath string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".kvs-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		return multierr.Append(err, cleanupTemp(tmp, tmpName))
	}
	if err := tmp.Sync(); err != nil {
		return multierr.Append(err, cleanupTemp(tmp, tmpName))
	}
	if err := tmp.Close(); err != nil {
		return multierr.Append(err, os.Remove(tmpName))
	}
	if err := os.Rename(tmpName, finalPath); err != nil {
		return multierr.Append(err, os.Remove(tmpName))
	}
	return nil
}

// cleanupTemp closes and removes a temp file after a write/sync failure,
// joining whichever of the two cleanup steps also fails onto the
// original error so neither is silently dropped.
func cleanupTemp(tmp *os.File, tmpName string) error {
	return multierr.Append(tmp.Close(), os.Remove(tmpName))
}

// fileExists reports whether path names a regular, readable file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
