package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsSupportedExt(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".mp3", true},
		{".WAV", true},
		{".flac", true},
		{".ogg", true},
		{".m4a", false},
		{".txt", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSupportedExt(tt.ext); got != tt.want {
			t.Errorf("IsSupportedExt(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestSupportedExtsList(t *testing.T) {
	list := SupportedExtsList()
	for _, ext := range []string{".mp3", ".wav", ".flac", ".ogg"} {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.flac")
	notes := filepath.Join(dir, "notes.txt")
	for _, p := range []string{song, notes} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := CheckFile(song); err != nil {
		t.Fatalf("expected %s to be accepted, got %v", song, err)
	}
	if err := CheckFile(notes); err == nil || !strings.Contains(err.Error(), "unsupported format .txt") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if err := CheckFile(dir); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
	if err := CheckFile(filepath.Join(dir, "missing.mp3")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
