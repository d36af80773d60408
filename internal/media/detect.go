// Package media knows which files wavescrub can open.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var audioExts = []string{".mp3", ".wav", ".flac", ".ogg"}

// IsSupportedExt returns true if the extension is a decodable audio format.
func IsSupportedExt(ext string) bool {
	return slices.Contains(audioExts, strings.ToLower(ext))
}

// SupportedExtsList returns a human-readable list of supported formats.
func SupportedExtsList() string {
	return strings.Join(audioExts, ", ")
}

// CheckFile verifies that path is a regular file in a supported format.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, SupportedExtsList())
	}
	return nil
}
