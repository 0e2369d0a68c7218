package telegram

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
)

// downloadChunkSize is the upload.getFile window; must be a multiple of 4KB.
const downloadChunkSize = 1024 * 1024

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".bmp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
}

// SendFile uploads a local file and sends it. The file is classified into
// photo/video/document input content by extension unless asDocument forces
// generic document handling.
func (c *Client) SendFile(ctx context.Context, chatID, filePath, caption string, replyToID int, asDocument bool) (*Message, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", filePath, err)
	}

	peer, err := c.resolvePeer(ctx, chatID)
	if err != nil {
		return nil, err
	}
	api, err := c.raw(ctx)
	if err != nil {
		return nil, err
	}

	upload, err := uploader.NewUploader(api).FromPath(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	media := classifyUpload(upload, filePath, asDocument)

	req := &tg.MessagesSendMediaRequest{
		Peer:     peer,
		Media:    media,
		Message:  caption,
		RandomID: randomID(),
	}
	if replyToID != 0 {
		req.ReplyTo = &tg.InputReplyToMessage{ReplyToMsgID: replyToID}
	}

	updates, err := api.MessagesSendMedia(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send media: %w", err)
	}

	sent := &Message{
		ChatID:    chatID,
		Text:      caption,
		Out:       true,
		ReplyToID: replyToID,
	}
	sent.ID, sent.Date = sentMessageID(updates)
	return sent, nil
}

// classifyUpload picks the input media variant for an uploaded file. Image
// extensions become photos, video extensions become videos, everything else a
// generic document. asDocument overrides the extension.
func classifyUpload(file tg.InputFileClass, filePath string, asDocument bool) tg.InputMediaClass {
	ext := strings.ToLower(filepath.Ext(filePath))

	if !asDocument && imageExtensions[ext] {
		return &tg.InputMediaUploadedPhoto{File: file}
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	attrs := []tg.DocumentAttributeClass{
		&tg.DocumentAttributeFilename{FileName: filepath.Base(filePath)},
	}
	if !asDocument && videoExtensions[ext] {
		attrs = append(attrs, &tg.DocumentAttributeVideo{SupportsStreaming: true})
	}
	return &tg.InputMediaUploadedDocument{
		File:     file,
		MimeType: mimeType,
		Attributes: attrs,
	}
}

// DownloadMedia downloads a message's media into the client's download
// directory under fileName and returns the local path. The transfer is
// blocking and chunked.
func (c *Client) DownloadMedia(ctx context.Context, media *MediaInfo, fileName string) (string, error) {
	if media == nil {
		return "", fmt.Errorf("no media to download")
	}

	var loc tg.InputFileLocationClass
	switch {
	case media.Kind == MediaPhoto:
		if media.photoThumbSize == "" {
			return "", fmt.Errorf("photo has no downloadable size")
		}
		loc = &tg.InputPhotoFileLocation{
			ID:            media.photoID,
			AccessHash:    media.photoAccessHash,
			FileReference: media.photoFileRef,
			ThumbSize:     media.photoThumbSize,
		}
	case media.docID != 0:
		loc = &tg.InputDocumentFileLocation{
			ID:            media.docID,
			AccessHash:    media.docAccessHash,
			FileReference: media.docFileRef,
		}
	default:
		return "", fmt.Errorf("media has no downloadable location")
	}

	if err := os.MkdirAll(c.downloadDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	destPath := filepath.Join(c.downloadDir, fileName)

	api, err := c.raw(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer f.Close()

	offset := int64(0)
	for {
		result, err := api.UploadGetFile(ctx, &tg.UploadGetFileRequest{
			Location: loc,
			Offset:   offset,
			Limit:    downloadChunkSize,
		})
		if err != nil {
			os.Remove(destPath)
			return "", fmt.Errorf("download failed at offset %d: %w", offset, err)
		}

		file, ok := result.(*tg.UploadFile)
		if !ok {
			os.Remove(destPath)
			return "", fmt.Errorf("unexpected upload response %T", result)
		}

		if len(file.Bytes) == 0 {
			break
		}
		if _, err := f.Write(file.Bytes); err != nil {
			os.Remove(destPath)
			return "", fmt.Errorf("failed to write %s: %w", destPath, err)
		}
		if len(file.Bytes) < downloadChunkSize {
			break
		}
		offset += int64(len(file.Bytes))
	}

	return destPath, nil
}
