package script

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func TestReadSourceFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "talk.txt", "one\ntwo\n")

	lines, err := ReadSource(filepath.Join(dir, "talk.txt"))
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("lines = %q, want [one two]", lines)
	}
}

func TestReadSourceNormalizesCRLF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "talk.txt", "one\r\ntwo\r\n")

	lines, err := ReadSource(filepath.Join(dir, "talk.txt"))
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("lines = %q, want [one two]", lines)
	}
}

func TestReadSourceDirectoryConcatenatesSorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "02-second.txt", "second")
	writeFile(t, dir, "01-first.txt", "first\n---")
	writeFile(t, dir, ".hidden", "skipped")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	lines, err := ReadSource(dir)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	want := []string{"first", "---", "second"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReadSourceMissingPath(t *testing.T) {
	t.Parallel()

	if _, err := ReadSource(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("ReadSource on a missing path succeeded, want error")
	}
}

func TestReadSourceEmptyDirectory(t *testing.T) {
	t.Parallel()

	if _, err := ReadSource(t.TempDir()); err == nil {
		t.Error("ReadSource on an empty directory succeeded, want error")
	}
}
