package handler

import (
	"errors"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"tush00nka/utransfer/api/response"
	"tush00nka/utransfer/internal/model"
	"tush00nka/utransfer/internal/pkg/device"
	"tush00nka/utransfer/internal/pkg/httputils"
	"tush00nka/utransfer/internal/service"

	"github.com/gorilla/mux"
)

const (
	// запас на заголовки multipart и текстовые поля
	multipartOverhead = 1 << 20
	// до этого размера форма держится в памяти, дальше во временных файлах
	multipartMemory = 32 << 20
	maxJSONBody     = 64 << 10
)

type FileHandler struct {
	fileService service.FileService
	maxUpload   int64
	trustProxy  bool
}

func NewFileHandler(fileService service.FileService, maxUpload int64, trustProxy bool) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUpload:   maxUpload,
		trustProxy:  trustProxy,
	}
}

func (h *FileHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/upload", h.upload).Methods("POST", "OPTIONS")
	router.HandleFunc("/download", h.download).Methods("POST", "OPTIONS")
	router.HandleFunc("/delete", h.delete).Methods("POST", "OPTIONS")
	router.HandleFunc("/files", h.list).Methods("GET")
}

// @Summary Upload file
// @Description Upload a file protected by a PIN. All connected clients receive the new list.
// @ID upload-file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Param pin formData string true "PIN required to download or delete the file"
// @Param nickname formData string false "Uploader nickname"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /upload [post]
func (h *FileHandler) upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, service.ErrFileTooLarge, "Failed to upload file")
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) && !errors.Is(err, http.ErrMissingBoundary) {
			httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
			return
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	req := service.UploadRequest{
		PIN:      r.FormValue("pin"),
		Nickname: r.FormValue("nickname"),
		Device:   device.FromRequest(r, h.trustProxy),
	}

	if fh := formFile(r.MultipartForm); fh != nil {
		src, err := fh.Open()
		if err != nil {
			h.writeError(w, r, err, "Failed to upload file")
			return
		}
		defer src.Close()

		req.Filename = fh.Filename
		req.Content = src
	}

	if _, err := h.fileService.Upload(r.Context(), req); err != nil {
		h.writeError(w, r, err, "Failed to upload file")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, response.SuccessResponse{Success: true})
}

// @Summary Download file
// @Description Stream a file after checking its PIN
// @ID download-file
// @Tags files
// @Accept json
// @Produce octet-stream
// @Param request body response.DownloadRequest true "Stored name and PIN"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /download [post]
func (h *FileHandler) download(w http.ResponseWriter, r *http.Request) {
	var request response.DownloadRequest
	if err := httputils.DecodeJSON(w, r, maxJSONBody, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	dl, err := h.fileService.Download(r.Context(), request.Filename, request.PIN)
	if err != nil {
		h.writeError(w, r, err, "Failed to download file")
		return
	}
	defer dl.File.Close()

	w.Header().Set("Content-Disposition", attachment(dl.Record.Name))
	http.ServeContent(w, r, dl.Record.Name, dl.Info.ModTime(), dl.File)
}

// @Summary Delete file
// @Description Delete a file after checking its PIN. All connected clients receive the new list.
// @ID delete-file
// @Tags files
// @Accept json
// @Produce json
// @Param request body response.DownloadRequest true "Stored name and PIN"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /delete [post]
func (h *FileHandler) delete(w http.ResponseWriter, r *http.Request) {
	var request response.DownloadRequest
	if err := httputils.DecodeJSON(w, r, maxJSONBody, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if _, err := h.fileService.Delete(r.Context(), request.Filename, request.PIN); err != nil {
		h.writeError(w, r, err, "Failed to delete file")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, response.SuccessResponse{Success: true})
}

// @Summary List files
// @Description Current file list, same as the WebSocket update payload
// @ID list-files
// @Tags files
// @Produce json
// @Success 200 {array} model.FileRecord
// @Router /files [get]
func (h *FileHandler) list(w http.ResponseWriter, r *http.Request) {
	files := h.fileService.List()
	if files == nil {
		files = []model.FileRecord{}
	}
	httputils.ResponseJSON(w, http.StatusOK, files)
}

// writeError отвечает статусом по ошибке сервиса. internal уходит клиенту вместо
// текста неизвестной ошибки.
func (h *FileHandler) writeError(w http.ResponseWriter, r *http.Request, err error, internal string) {
	switch {
	case errors.Is(err, service.ErrPINRequired):
		httputils.ResponseError(w, http.StatusBadRequest, "PIN is required")
	case errors.Is(err, service.ErrFileRequired):
		httputils.ResponseError(w, http.StatusBadRequest, "File is required")
	case errors.Is(err, service.ErrFileTooLarge):
		httputils.ResponseError(w, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, service.ErrFileNotFound):
		httputils.ResponseError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, service.ErrInvalidPIN):
		httputils.ResponseError(w, http.StatusForbidden, "Invalid PIN")
	default:
		log.Printf("❌ [%s] %s %s: %v", httputils.RequestIDFrom(r.Context()), r.Method, r.URL.Path, err)
		httputils.ResponseError(w, http.StatusInternalServerError, internal)
	}
}

func formFile(mf *multipart.Form) *multipart.FileHeader {
	if mf == nil {
		return nil
	}
	if v := mf.File["file"]; len(v) > 0 {
		return v[0]
	}
	return nil
}

// attachment builds Content-Disposition, using filename* for non-ASCII names.
func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
