package devapi

import (
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/client"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/storage"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/response"
)

const defaultFolder = "images"

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func uploadError(c *gin.Context, status int, code, message string) {
	c.JSON(status, response.UploadResponse{Success: false, Code: code, Message: message})
}

// Upload godoc
// POST /upload (multipart: file, folder)
//
// The original lands at {folder}/{uuid}{ext}; raster images also get a
// thumbnail at {folder}/thumbnails/{uuid}{ext}. SVGs are their own thumbnail.
func (h *Handler) Upload(c *gin.Context) {
	// multipart overhead on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			uploadError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the upload limit")
			return
		}
		uploadError(c, http.StatusBadRequest, "INVALID_MULTIPART", "request must be multipart/form-data")
		return
	}

	folder := strings.TrimSpace(c.PostForm("folder"))
	if folder == "" {
		folder = defaultFolder
	}
	if !folderPattern.MatchString(folder) {
		uploadError(c, http.StatusBadRequest, "INVALID_FOLDER", "invalid upload folder")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		uploadError(c, http.StatusBadRequest, "FILE_REQUIRED", "multipart field \"file\" is required")
		return
	}
	if fh.Size > h.maxUpload {
		uploadError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the upload limit")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.internalError(c, "open upload", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		h.internalError(c, "read upload", err)
		return
	}
	if int64(len(data)) > h.maxUpload {
		uploadError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the upload limit")
		return
	}
	if len(data) == 0 {
		uploadError(c, http.StatusBadRequest, "FILE_EMPTY", "file is empty")
		return
	}

	// Same allow-list as the client; the server is authoritative.
	mtype, err := client.CheckFile(fh.Filename, data, folder, h.maxUpload)
	if err != nil {
		uploadError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", err.Error())
		return
	}
	info, err := h.images.Inspect(data, mtype)
	if err != nil {
		uploadError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", err.Error())
		return
	}

	id := uuid.New().String()
	ctx := c.Request.Context()
	var fileURL, thumbURL string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fileURL, err = h.storage.Put(gctx, folder+"/"+id+info.Ext, data, mtype)
		return err
	})
	if info.Raster {
		g.Go(func() error {
			thumb, ct, ext, err := h.images.Thumbnail(data, info)
			if err != nil {
				return err
			}
			thumbURL, err = h.storage.Put(gctx, folder+"/thumbnails/"+id+ext, thumb, ct)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		h.internalError(c, "store upload", err)
		return
	}
	if thumbURL == "" {
		thumbURL = fileURL
	}

	resp := response.UploadResponse{
		Success:      true,
		FileURL:      fileURL,
		ThumbnailURL: thumbURL,
		FileSize:     int64(len(data)),
	}
	if info.Raster {
		resp.Dimensions = &response.Dimensions{Width: info.Width, Height: info.Height}
	}
	h.log.Info().Str("folder", folder).Str("file_url", fileURL).Int64("size", resp.FileSize).Msg("file stored")
	c.JSON(http.StatusOK, resp)
}

// ServeFile godoc
// GET /files/*key, only meaningful for memory storage.
func (h *Handler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	data, ct, err := h.storage.Get(c.Request.Context(), key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		response.NotFound(c, "file not found")
		return
	}
	if err != nil {
		h.internalError(c, "serve file", err)
		return
	}
	c.Data(http.StatusOK, ct, data)
}
