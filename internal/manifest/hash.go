package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest computes the SHA-256 of the file's raw bytes as lowercase hex.
// Hashing the bytes rather than the parsed structure means any byte-level
// change, formatting included, produces a new digest. The digest is
// recomputed on every call; nothing is cached.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("manifest: hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("manifest: hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteArtifact persists the digest plus a trailing newline via
// truncate-create. Atomic replace is deliberately not promised.
func WriteArtifact(digest, outPath string) error {
	if err := os.WriteFile(outPath, []byte(digest+"\n"), 0o644); err != nil {
		return fmt.Errorf("manifest: write artifact %s: %w", outPath, err)
	}
	return nil
}
