package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/metrics"
	"intranet-portal-backend/pkg/storage"
	"intranet-portal-backend/pkg/utils"
)

// multipart 表单在内存中保留的上限，超出部分落临时文件
const multipartMemory = 8 << 20

// UploadsHandler 文件上传；返回值可直接作为内容的 attachments 项
type UploadsHandler struct {
	uploader storage.Uploader
	metrics  *metrics.Metrics
}

func NewUploadsHandler(uploader storage.Uploader, m *metrics.Metrics) *UploadsHandler {
	return &UploadsHandler{uploader: uploader, metrics: m}
}

// POST /api/uploads (multipart, field "file")
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, &apperrors.InvalidFieldError{Field: "file", Reason: "upload is too large"})
			return
		}
		utils.WriteError(w, &apperrors.InvalidFieldError{Field: "body", Reason: "expected multipart/form-data"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, &apperrors.MissingRequiredFieldError{Field: "file"})
		return
	}
	defer file.Close()

	obj, err := h.uploader.Put(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	h.metrics.UploadedBytes.Add(float64(obj.Size))
	hlog.FromRequest(r).Info().Str("key", obj.Key).Int64("size", obj.Size).Msg("📁 File uploaded")
	utils.WriteCreatedResponse(w, obj)
}
