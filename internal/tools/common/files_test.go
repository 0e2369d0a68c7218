package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/teemow/telegram-mcp/internal/telegram"
)

func TestMediaFileName(t *testing.T) {
	tests := []struct {
		name  string
		media telegram.MediaInfo
		want  string
	}{
		{"declared name wins", telegram.MediaInfo{Kind: telegram.MediaDocument, FileName: "report.pdf"}, "report.pdf"},
		{"photo", telegram.MediaInfo{Kind: telegram.MediaPhoto}, "photo_42.jpg"},
		{"video", telegram.MediaInfo{Kind: telegram.MediaVideo}, "video_42.mp4"},
		{"voice", telegram.MediaInfo{Kind: telegram.MediaVoice}, "voice_42.ogg"},
		{"sticker", telegram.MediaInfo{Kind: telegram.MediaSticker}, "sticker_42.webp"},
		{"animation", telegram.MediaInfo{Kind: telegram.MediaAnimation}, "animation_42.gif"},
		{"document without name", telegram.MediaInfo{Kind: telegram.MediaDocument}, "file_42"},
		{"audio without name", telegram.MediaInfo{Kind: telegram.MediaAudio}, "file_42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MediaFileName(&tt.media, 42); got != tt.want {
				t.Errorf("MediaFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCopyToDir(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "photo.jpg")
	if err := os.WriteFile(src, []byte("payload"), 0600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	destDir := filepath.Join(t.TempDir(), "out")
	dest, err := CopyToDir(src, destDir)
	if err != nil {
		t.Fatalf("CopyToDir() error = %v", err)
	}
	if dest != filepath.Join(destDir, "photo.jpg") {
		t.Errorf("dest = %q, want under %q", dest, destDir)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read copy: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("copied content = %q, want %q", data, "payload")
	}

	// The original cached file stays in place.
	if _, err := os.Stat(src); err != nil {
		t.Errorf("expected source to survive the copy: %v", err)
	}
}

func TestCopyToDir_SameDirIsNoop(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "doc.pdf")
	if err := os.WriteFile(src, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	dest, err := CopyToDir(src, srcDir)
	if err != nil {
		t.Fatalf("CopyToDir() error = %v", err)
	}
	if dest != src {
		t.Errorf("dest = %q, want %q", dest, src)
	}
}

func TestCopyToDir_TrailingSlashSameDirIsNoop(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "voice.ogg")
	if err := os.WriteFile(src, []byte("original payload"), 0600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	// An unclean spelling of the source's own directory must not trigger a
	// self-copy, which would truncate the file before reading it.
	dest, err := CopyToDir(src, srcDir+string(filepath.Separator))
	if err != nil {
		t.Fatalf("CopyToDir() error = %v", err)
	}
	if dest != src {
		t.Errorf("dest = %q, want %q", dest, src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("failed to read source after copy: %v", err)
	}
	if string(data) != "original payload" {
		t.Errorf("source content = %q, want %q", data, "original payload")
	}
}

func TestCopyToDir_DotSegmentSameDirIsNoop(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "doc.pdf")
	if err := os.WriteFile(src, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	dest, err := CopyToDir(src, srcDir+string(filepath.Separator)+".")
	if err != nil {
		t.Fatalf("CopyToDir() error = %v", err)
	}
	if dest != src {
		t.Errorf("dest = %q, want %q", dest, src)
	}
}

func TestCopyToDir_EmptyDirIsNoop(t *testing.T) {
	dest, err := CopyToDir("/tmp/cache/photo.jpg", "")
	if err != nil {
		t.Fatalf("CopyToDir() error = %v", err)
	}
	if dest != "/tmp/cache/photo.jpg" {
		t.Errorf("dest = %q, want source path", dest)
	}
}

func TestCopyToDir_MissingSource(t *testing.T) {
	if _, err := CopyToDir(filepath.Join(t.TempDir(), "missing.bin"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing source")
	}
}
