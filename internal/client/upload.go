package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/apperr"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/response"
)

const (
	DefaultMaxUploadBytes int64 = 10 << 20 // 10 MiB

	FolderIcons = "icons"
)

// AllowedTypes is the MIME allow-list per upload folder. Folders without an
// entry use the "" list.
var AllowedTypes = map[string][]string{
	"":          {"image/jpeg", "image/png", "image/webp"},
	FolderIcons: {"image/svg+xml", "image/png", "image/webp"},
}

// File is a local file selected for upload.
type File struct {
	Name    string
	Content io.Reader
}

// UploadResult describes a stored file. Width and Height are nil when the
// backend reported no dimensions (e.g. SVG).
type UploadResult struct {
	FileURL      string
	ThumbnailURL string
	FileSize     int64
	Width        *int
	Height       *int
}

// Uploader sends files to the upload endpoint.
type Uploader interface {
	Upload(ctx context.Context, file File, folder string) (*UploadResult, error)
}

// UploadClient validates files locally and posts them to /upload.
type UploadClient struct {
	client   *Client
	maxBytes int64
}

// NewUploadClient shares c's transport and session. maxBytes <= 0 means
// DefaultMaxUploadBytes.
func NewUploadClient(c *Client, maxBytes int64) *UploadClient {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadClient{client: c, maxBytes: maxBytes}
}

// Upload checks the file against the folder's allow-list and size limit, then
// sends it as multipart form data. Local rejections never reach the network.
func (u *UploadClient) Upload(ctx context.Context, file File, folder string) (*UploadResult, error) {
	const op = "upload"

	content, err := io.ReadAll(io.LimitReader(file.Content, u.maxBytes+1))
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrUploadRejected, Op: op, Message: "could not read file", Err: err}
	}
	mtype, err := CheckFile(file.Name, content, folder, u.maxBytes)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(file.Name, mtype, content, folder)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Err: err}
	}

	req, err := u.client.newRequest(ctx, http.MethodPost, "/upload", nil, body)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	raw, status, err := u.client.send(req, op)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		uerr := errorFromBody(op, status, raw)
		switch status {
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			uerr.Kind = apperr.ErrUploadRejected
		}
		return nil, uerr
	}

	var resp response.UploadResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Status: status, Message: "upload response is not JSON", Err: err}
	}
	if !resp.Success || resp.FileURL == "" {
		return nil, &apperr.Error{Kind: apperr.ErrProtocol, Op: op, Status: status, Code: resp.Code, Message: firstNonEmpty(resp.Message, "upload response has no file_url")}
	}

	result := &UploadResult{
		FileURL:      resp.FileURL,
		ThumbnailURL: resp.ThumbnailURL,
		FileSize:     resp.FileSize,
	}
	if resp.Dimensions != nil {
		w, h := resp.Dimensions.Width, resp.Dimensions.Height
		result.Width, result.Height = &w, &h
	}
	u.client.log.Info().Str("folder", folder).Str("file_url", result.FileURL).Int64("size", result.FileSize).Msg("file uploaded")
	return result, nil
}

// CheckFile enforces the size limit and the folder's MIME allow-list on the
// sniffed content, returning the detected type.
func CheckFile(name string, content []byte, folder string, maxBytes int64) (string, error) {
	const op = "upload"
	if len(content) == 0 {
		return "", &apperr.Error{Kind: apperr.ErrUploadRejected, Op: op, Message: "file is empty"}
	}
	if int64(len(content)) > maxBytes {
		return "", &apperr.Error{Kind: apperr.ErrUploadRejected, Op: op, Message: fmt.Sprintf("file exceeds %d MB limit", maxBytes>>20)}
	}

	detected := mimetype.Detect(content)
	allowed, ok := AllowedTypes[folder]
	if !ok {
		allowed = AllowedTypes[""]
	}
	for _, t := range allowed {
		if detected.Is(t) {
			return t, nil
		}
	}
	return "", &apperr.Error{
		Kind:    apperr.ErrUploadRejected,
		Op:      op,
		Message: fmt.Sprintf("%s: type %s not allowed (allowed: %s)", filepath.Base(name), detected.String(), strings.Join(allowed, ", ")),
	}
}

func multipartBody(name, mtype string, content []byte, folder string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(name)))
	h.Set("Content-Type", mtype)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if folder != "" {
		if err := w.WriteField("folder", folder); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
