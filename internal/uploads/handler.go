package uploads

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	httputil "travelbook/pkg/http"
	"travelbook/pkg/logger"
	"travelbook/pkg/middleware"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Handler stores uploaded images under a local directory and serves
// them back on /uploads.
type Handler struct {
	auth *middleware.Auth
	cfg  *config.Config
	log  *logger.Logger
}

func NewHandler(auth *middleware.Auth, cfg *config.Config) *Handler {
	return &Handler{
		auth: auth,
		cfg:  cfg,
		log:  cfg.Log,
	}
}

type uploadResult struct {
	URL string `json:"url"`
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	maxSize := int64(h.cfg.MaxUploadSize)
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		h.writeError(w, "Upload", apperrors.Validation("Uploaded file is too large or malformed", nil))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, "Upload", apperrors.InvalidInput("Missing image file"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		h.writeError(w, "Upload", apperrors.Validation("Unsupported image type", map[string]any{"extension": ext}))
		return
	}

	if err := h.sniffImage(file); err != nil {
		h.writeError(w, "Upload", err)
		return
	}

	name := uuid.New().String() + ext
	if err := h.save(file, name); err != nil {
		h.log.Error("failed to store upload", "error", err)
		h.writeError(w, "Upload", apperrors.Internal("Failed to store upload", err))
		return
	}

	h.log.Info("image uploaded", "file", name, "size", header.Size)
	if err := httputil.WriteCreated(w, uploadResult{URL: "/uploads/" + name}); err != nil {
		h.log.Error("failed to write created response", "handler", "Upload", "error", err)
	}
}

// sniffImage checks the leading bytes carry an image content type and
// rewinds the reader for the subsequent copy.
func (h *Handler) sniffImage(file io.ReadSeeker) error {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return apperrors.Internal("Failed to read upload", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return apperrors.Internal("Failed to read upload", err)
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return apperrors.Validation("File is not an image", map[string]any{"contentType": contentType})
	}
	return nil
}

func (h *Handler) save(file io.Reader, name string) error {
	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		return err
	}

	dst, err := os.Create(filepath.Join(h.cfg.UploadDir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}

func (h *Handler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/upload", h.auth.Required(h.Upload))
	router.ServeFiles("/uploads/*filepath", http.Dir(h.cfg.UploadDir))
}
