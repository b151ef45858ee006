package handlers

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/onnwee/storefront-admin/internal/apierr"
	"github.com/onnwee/storefront-admin/internal/cache"
	"github.com/onnwee/storefront-admin/internal/logger"
)

// allowed image types by sniffed content type
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProductImageSetter is the store surface the upload handler needs.
type ProductImageSetter interface {
	SetProductImage(ctx context.Context, id, image string) error
}

// UploadHandler stores product images on disk and records the stored path on
// the product row.
type UploadHandler struct {
	store       ProductImageSetter
	invalidator *cache.Invalidator
	dir         string
	maxBytes    int64
}

// NewUploadHandler creates an upload handler writing into dir.
func NewUploadHandler(s ProductImageSetter, inv *cache.Invalidator, dir string, maxBytes int64) *UploadHandler {
	return &UploadHandler{store: s, invalidator: inv, dir: dir, maxBytes: maxBytes}
}

// UploadProductImage accepts a multipart "image" field, sniffs its type,
// stores it under a random filename and points the product at it.
// POST /api/admin/products/{id}/image
func (h *UploadHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.UploadTooLarge(
			fmt.Sprintf("Upload exceeds the %d byte limit", h.maxBytes)))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("image"))
		return
	}
	defer file.Close()

	// Sniff the content type from the first bytes rather than trusting the
	// client-supplied header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		apierr.WriteErrorWithContext(w, r, apierr.UploadFailed("Failed to read upload"))
		return
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := imageExtensions[contentType]
	if !ok {
		apierr.WriteErrorWithContext(w, r, apierr.UploadInvalidType(
			fmt.Sprintf("Unsupported image type %q", contentType)))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		apierr.WriteErrorWithContext(w, r, apierr.UploadFailed("Failed to read upload"))
		return
	}

	name := randomFilename() + ext
	path := filepath.Join(h.dir, name)

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		logger.ErrorContext(r.Context(), "Failed to create upload dir", "error", err, "dir", h.dir)
		apierr.WriteErrorWithContext(w, r, apierr.UploadFailed("Failed to store upload"))
		return
	}

	dst, err := os.Create(path)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to create upload file", "error", err, "path", path)
		apierr.WriteErrorWithContext(w, r, apierr.UploadFailed("Failed to store upload"))
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		logger.ErrorContext(r.Context(), "Failed to write upload file", "error", err, "path", path)
		apierr.WriteErrorWithContext(w, r, apierr.UploadFailed("Failed to store upload"))
		return
	}

	if err := h.store.SetProductImage(r.Context(), id, "/"+filepath.ToSlash(path)); err != nil {
		os.Remove(path)
		if errors.Is(err, sql.ErrNoRows) {
			apierr.WriteErrorWithContext(w, r, apierr.ResourceNotFound("product"))
			return
		}
		logger.ErrorContext(r.Context(), "Failed to record product image", "error", err, "product_id", id)
		apierr.WriteErrorWithContext(w, r, apierr.SystemDatabase("Failed to record product image"))
		return
	}

	if err := h.invalidator.Invalidate(cache.Invalidation{Kind: cache.EntityProduct, ID: id}); err != nil {
		logger.ErrorContext(r.Context(), "Cache invalidation failed", "error", err, "product_id", id)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    id,
		"image": "/" + filepath.ToSlash(path),
	})
}

func randomFilename() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure means a broken platform
	}
	return hex.EncodeToString(b)
}
