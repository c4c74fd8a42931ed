// Package handlers exposes the compression service over HTTP.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	easyjson "github.com/mailru/easyjson"
	"github.com/pierrec/xxHash/xxHash64"
	"go.uber.org/zap"

	"huffpress/internal/api/compressdto"
	"huffpress/internal/codecerr"
	"huffpress/internal/service"
	"huffpress/internal/storage"
)

const (
	fileField       = "file"
	percentageField = "compression_percentage"
	encodingField   = "encoding"
	base64Encoding  = "base64"

	// multipartMemory is the part of a form kept in memory while parsing.
	multipartMemory = 32 << 20
	// formOverhead leaves room for boundaries and headers around the file.
	formOverhead = 64 << 10
)

var (
	errUploadTooLarge = errors.New("upload too large")
	errBadRequest     = errors.New("bad request")
)

type handlerService struct {
	service   compressService
	router    *chi.Mux
	maxUpload int64
	log       *zap.SugaredLogger
}

type compressService interface {
	Compress(ctx context.Context, up service.Upload, rawPercentage string) (compressdto.CompressResponse, error)
	Decompress(ctx context.Context, up service.Upload) (compressdto.DecompressResponse, error)
	Download(ctx context.Context, filename string) ([]byte, error)
	Remove(ctx context.Context, filename string) error
	Files(ctx context.Context) ([]string, error)
	Jobs(ctx context.Context, limit int) ([]compressdto.Job, error)
	Ping(ctx context.Context) error
}

// NewHandlerService binds svc to router. maxUpload <= 0 disables the upload
// size check; a nil logger discards handler errors.
func NewHandlerService(svc compressService, router *chi.Mux, maxUpload int64, log *zap.SugaredLogger) *handlerService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &handlerService{
		service:   svc,
		router:    router,
		maxUpload: maxUpload,
		log:       log,
	}
}

func (h *handlerService) GetRouter() *chi.Mux {
	return h.router
}

func (h *handlerService) CreateHandlers() {
	h.router.Group(func(r chi.Router) {
		r.Post("/compress", h.compress)
		r.Post("/decompress", h.decompress)
		r.Get("/download/{filename}", h.download)
		r.Delete("/download/{filename}", h.remove)
		r.Get("/files", h.files)
		r.Get("/jobs", h.jobs)
		r.Get("/ping", h.ping)
	})
}

func (h *handlerService) compress(res http.ResponseWriter, req *http.Request) {
	up, err := h.readUpload(res, req)
	if err != nil {
		h.writeError(res, err)
		return
	}

	resp, err := h.service.Compress(req.Context(), up, req.FormValue(percentageField))
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, resp)
}

func (h *handlerService) decompress(res http.ResponseWriter, req *http.Request) {
	up, err := h.readUpload(res, req)
	if err != nil {
		h.writeError(res, err)
		return
	}

	resp, err := h.service.Decompress(req.Context(), up)
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, resp)
}

func (h *handlerService) download(res http.ResponseWriter, req *http.Request) {
	filename := chi.URLParam(req, "filename")
	data, err := h.service.Download(req.Context(), filename)
	if err != nil {
		h.writeError(res, err)
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxHash64.Checksum(data, 0))
	textSafe := req.URL.Query().Get(encodingField) == base64Encoding
	if textSafe {
		etag = fmt.Sprintf(`"%016x-b64"`, xxHash64.Checksum(data, 0))
	}
	res.Header().Set("ETag", etag)
	if match := req.Header.Get("If-None-Match"); match != "" && match == etag {
		res.WriteHeader(http.StatusNotModified)
		return
	}

	if textSafe {
		res.Header().Set("Content-Type", "text/plain; charset=us-ascii")
		data = service.EncodeText(data)
	} else {
		res.Header().Set("Content-Type", "application/octet-stream")
		res.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	res.WriteHeader(http.StatusOK)
	if _, err := res.Write(data); err != nil {
		h.log.Warnw("write download", "filename", filename, "error", err)
	}
}

func (h *handlerService) remove(res http.ResponseWriter, req *http.Request) {
	if err := h.service.Remove(req.Context(), chi.URLParam(req, "filename")); err != nil {
		h.writeError(res, err)
		return
	}
	res.WriteHeader(http.StatusNoContent)
}

func (h *handlerService) files(res http.ResponseWriter, req *http.Request) {
	names, err := h.service.Files(req.Context())
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, compressdto.FileList{Files: names})
}

func (h *handlerService) jobs(res http.ResponseWriter, req *http.Request) {
	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(res, fmt.Errorf("%w: invalid limit %q", errBadRequest, raw))
			return
		}
		limit = n
	}

	jobs, err := h.service.Jobs(req.Context(), limit)
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, compressdto.JobList{Jobs: jobs})
}

func (h *handlerService) ping(res http.ResponseWriter, req *http.Request) {
	if err := h.service.Ping(req.Context()); err != nil {
		h.log.Errorw("ping failed", "error", err)
		http.Error(res, "storage unavailable", http.StatusInternalServerError)
		return
	}
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = res.Write([]byte("OK"))
}

// readUpload extracts the multipart file field. A form field
// encoding=base64 marks an upload in text-safe form.
func (h *handlerService) readUpload(res http.ResponseWriter, req *http.Request) (service.Upload, error) {
	if h.maxUpload > 0 {
		req.Body = http.MaxBytesReader(res, req.Body, h.maxUpload+formOverhead)
	}
	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return service.Upload{}, errUploadTooLarge
		}
		return service.Upload{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	file, header, err := req.FormFile(fileField)
	if err != nil {
		return service.Upload{}, fmt.Errorf("%w: no file part", errBadRequest)
	}
	defer file.Close()
	if header.Filename == "" {
		return service.Upload{}, fmt.Errorf("%w: no selected file", errBadRequest)
	}

	var r io.Reader = file
	if h.maxUpload > 0 {
		r = io.LimitReader(file, h.maxUpload+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return service.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if h.maxUpload > 0 && int64(len(data)) > h.maxUpload {
		return service.Upload{}, errUploadTooLarge
	}

	if req.FormValue(encodingField) == base64Encoding {
		if data, err = service.DecodeText(data); err != nil {
			return service.Upload{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}

	return service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest), errors.Is(err, service.ErrInvalidFilename):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	}

	switch kind := codecerr.KindOf(err); {
	case kind.IsInput():
		return http.StatusBadRequest
	case kind != codecerr.KindUnknown:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *handlerService) writeError(res http.ResponseWriter, err error) {
	status := statusFor(err)
	body := compressdto.ErrorResponse{Error: err.Error()}
	if kind := codecerr.KindOf(err); kind != codecerr.KindUnknown {
		body.Kind = kind.String()
	}
	if status == http.StatusInternalServerError {
		h.log.Errorw("request failed", "error", err)
		body.Error = http.StatusText(status)
	}
	writeJSON(res, status, body)
}

func writeJSON(res http.ResponseWriter, status int, v easyjson.Marshaler) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_, _ = easyjson.MarshalToWriter(v, res)
}
