package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/teemow/telegram-mcp/internal/telegram"
)

// MediaFileName returns the name to store a message's media under. The
// document's declared name wins; otherwise the name is synthesized from the
// media kind and message id.
func MediaFileName(media *telegram.MediaInfo, messageID int) string {
	if media.FileName != "" {
		return media.FileName
	}

	switch media.Kind {
	case telegram.MediaPhoto:
		return fmt.Sprintf("photo_%d.jpg", messageID)
	case telegram.MediaVideo:
		return fmt.Sprintf("video_%d.mp4", messageID)
	case telegram.MediaVoice:
		return fmt.Sprintf("voice_%d.ogg", messageID)
	case telegram.MediaSticker:
		return fmt.Sprintf("sticker_%d.webp", messageID)
	case telegram.MediaAnimation:
		return fmt.Sprintf("animation_%d.gif", messageID)
	default:
		return fmt.Sprintf("file_%d", messageID)
	}
}

// CopyToDir stream-copies src into destDir, keeping the source file in
// place. Returns the destination path. A destDir equal to the source's
// directory is a no-op returning src unchanged.
func CopyToDir(src, destDir string) (string, error) {
	if destDir == "" || filepath.Clean(destDir) == filepath.Dir(src) {
		return src, nil
	}

	if err := os.MkdirAll(destDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	destPath := filepath.Join(destDir, filepath.Base(src))
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(destPath)
		return "", fmt.Errorf("failed to copy to %s: %w", destPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", destPath, err)
	}

	return destPath, nil
}
