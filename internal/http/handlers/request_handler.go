package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/annaclean/cleanmarket-backend/internal/dto"
	"github.com/annaclean/cleanmarket-backend/internal/http/handlers/common"
	"github.com/annaclean/cleanmarket-backend/internal/service"
)

// Разрешённые типы файлов для фотографий помещений.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// RequestHandler предоставляет HTTP слой для заявок на уборку.
type RequestHandler struct {
	requests *service.RequestService
}

// NewRequestHandler создаёт хэндлер.
func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// Create обрабатывает POST /requests.
func (h *RequestHandler) Create(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.requests.Submit(c.Request.Context(), service.SubmitRequestInput{
		ClientID:          clientID,
		ServiceAddress:    req.ServiceAddress,
		CleaningType:      req.CleaningType,
		NumRooms:          req.NumRooms,
		PreferredDatetime: req.PreferredDatetime,
		ProposedBudget:    req.ProposedBudget,
		Notes:             req.Notes,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List обрабатывает GET /requests — заявки текущего клиента.
func (h *RequestHandler) List(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	requests, err := h.requests.ListForClient(c.Request.Context(), clientID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// Get обрабатывает GET /requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.requests.Get(c.Request.Context(), requestID, clientID, common.IsAdmin(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// ListPending обрабатывает GET /requests/admin/pending.
func (h *RequestHandler) ListPending(c *gin.Context) {
	requests, err := h.requests.ListPending(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// Reject обрабатывает POST /requests/:id/reject.
func (h *RequestHandler) Reject(c *gin.Context) {
	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.requests.Reject(c.Request.Context(), requestID, req.Note); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "заявка отклонена", nil)
}

// UploadPhotos обрабатывает POST /requests/:id/photos.
// Принимает multipart поле photos, проверяет расширение и магические байты.
func (h *RequestHandler) UploadPhotos(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "некорректная multipart форма")
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		common.RespondError(c, http.StatusBadRequest, "поле photos обязательно")
		return
	}

	uploads := make([]service.PhotoUpload, 0, len(files))
	for _, file := range files {
		if file.Size == 0 {
			common.RespondError(c, http.StatusBadRequest, "файл не может быть пустым")
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedExtensions[ext] {
			common.RespondError(c, http.StatusBadRequest,
				fmt.Sprintf("неподдерживаемый формат файла %s", file.Filename))
			return
		}

		src, err := file.Open()
		if err != nil {
			common.RespondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer src.Close()

		// Проверяем магические байты: расширению доверять нельзя.
		buffer := make([]byte, 512)
		n, err := src.Read(buffer)
		if err != nil && err != io.EOF {
			common.RespondError(c, http.StatusBadRequest, "не удалось прочитать файл")
			return
		}

		kind, err := filetype.Match(buffer[:n])
		if err != nil || kind == filetype.Unknown || !allowedMimeTypes[kind.MIME.Value] {
			common.RespondError(c, http.StatusBadRequest,
				fmt.Sprintf("файл %s не является изображением", file.Filename))
			return
		}

		if _, err := src.Seek(0, io.SeekStart); err != nil {
			common.RespondError(c, http.StatusInternalServerError, err.Error())
			return
		}

		uploads = append(uploads, service.PhotoUpload{Name: file.Filename, Reader: src})
	}

	paths, err := h.requests.AttachPhotos(c.Request.Context(), requestID, clientID, uploads)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusCreated, "фотографии загружены", gin.H{"paths": paths})
}

// ListPhotos обрабатывает GET /requests/:id/photos.
func (h *RequestHandler) ListPhotos(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	requestID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	photos, err := h.requests.Photos(c.Request.Context(), requestID, clientID, common.IsAdmin(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, photos)
}
