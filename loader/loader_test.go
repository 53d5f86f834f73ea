package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mylez/mpce/memory"
)

func TestLoadWordsReadsBigEndianWords(t *testing.T) {
	ram := memory.New("test", 4)
	data := []byte{0x01, 0x02, 0xbe, 0xef}

	n, err := LoadWords(bytes.NewReader(data), ram)
	if err != nil {
		t.Fatalf("LoadWords: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if got := ram.LoadW(0); got != 0x0102 {
		t.Fatalf("word 0 = %#x, want 0x0102", got)
	}
	if got := ram.LoadW(1); got != 0xbeef {
		t.Fatalf("word 1 = %#x, want 0xbeef", got)
	}
}

func TestLoadWordsStopsAtCapacity(t *testing.T) {
	ram := memory.New("test", 1)
	data := []byte{0x00, 0x01, 0x00, 0x02}

	n, err := LoadWords(bytes.NewReader(data), ram)
	if err != nil {
		t.Fatalf("LoadWords: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1 (capacity-limited)", n)
	}
}

func TestLoadWordsTruncatedWordReturnsError(t *testing.T) {
	ram := memory.New("test", 4)
	data := []byte{0x00, 0x01, 0x02}

	_, err := LoadWords(bytes.NewReader(data), ram)
	if err == nil {
		t.Fatal("expected error on truncated trailing byte")
	}
}

func TestLoadFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bin")
	if err := os.WriteFile(path, []byte{0x12, 0x34}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ram := memory.New("test", 4)
	n, err := LoadFile(path, ram)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if got := ram.LoadW(0); got != 0x1234 {
		t.Fatalf("word 0 = %#x, want 0x1234", got)
	}
}
