package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
)

// maxUploadBytes bounds the multipart upload; classification clips are short.
const maxUploadBytes = 25 << 20

const errCodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"

// GetSession handles GET /session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// SelectFile handles POST /session/file. The file arrives as a multipart
// upload under the "file" field; the declared part content type is the only
// validation input, mirroring a browser file picker.
func (h *Handler) SelectFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	sel := domain.Selection{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Size:      header.Size,
		Payload:   payload,
	}

	if err := h.session.SelectFile(sel); err != nil {
		if errors.Is(err, domain.ErrUnsupportedMedia) {
			writeErrorWithCode(w, http.StatusUnsupportedMediaType, "Please select a WAV file", errCodeUnsupportedMedia)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// ClearFile handles DELETE /session/file.
func (h *Handler) ClearFile(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// Submit handles POST /session/submit. The response reflects the state after
// the full classification + recommendation chain settles.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Submit(r.Context()); err != nil {
		if errors.Is(err, domain.ErrNoSelection) {
			writeError(w, http.StatusBadRequest, "Please select a file first.")
			return
		}
		// Transport and server failures were already folded into the
		// session state; surface that state, not the raw error.
		writeJSON(w, http.StatusBadGateway, h.session.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}
