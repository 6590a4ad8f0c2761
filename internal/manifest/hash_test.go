package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDigestDeterministic(t *testing.T) {
	path := writeDoc(t, "run.json", goodRun)
	first, err := Digest(path)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	second, err := Digest(path)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if first != second {
		t.Fatalf("digest not deterministic: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("digest length = %d, want 64", len(first))
	}
	if err := validateDigest(first); err != nil {
		t.Fatalf("digest not lowercase hex: %v", err)
	}
}

func TestDigestSingleByteChange(t *testing.T) {
	a := mustDigest(t, writeDoc(t, "a.json", goodRun))
	mutated := []byte(goodRun)
	mutated[len(mutated)-2] ^= 0x01
	b := mustDigest(t, writeDoc(t, "b.json", string(mutated)))
	if a == b {
		t.Fatal("one-byte change produced identical digest")
	}
}

func mustDigest(t *testing.T, path string) string {
	t.Helper()
	d, err := Digest(path)
	if err != nil {
		t.Fatalf("digest %s: %v", path, err)
	}
	return d
}

func TestWriteArtifact(t *testing.T) {
	path := writeDoc(t, "run.json", goodRun)
	digest := mustDigest(t, path)
	out := filepath.Join(t.TempDir(), "run.sha256")

	if err := WriteArtifact(digest, out); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != digest+"\n" {
		t.Fatalf("artifact = %q, want digest plus newline", string(data))
	}

	// truncate-create replaces a longer previous artifact entirely
	if err := os.WriteFile(out, []byte("stale artifact with extra bytes\n"), 0o644); err != nil {
		t.Fatalf("seed stale artifact: %v", err)
	}
	if err := WriteArtifact(digest, out); err != nil {
		t.Fatalf("rewrite artifact: %v", err)
	}
	data, err = os.ReadFile(out)
	if err != nil {
		t.Fatalf("reread artifact: %v", err)
	}
	if string(data) != digest+"\n" {
		t.Fatalf("rewrite left stale bytes: %q", string(data))
	}
}
