package api

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/services"
)

const maxUploadFormMemory = 32 * 1024 * 1024

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  services.Uploader
}

func newUploadHandler(uploader services.Uploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

type fileRejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// uploadImages stores a batch of images. Each file is validated on its
// own; a rejected file never blocks the rest of the batch.
func (h uploadHandler) uploadImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := readMultipartFiles(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(files) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no files provided"))
			return
		}

		var accepted []services.File
		var rejections []fileRejection
		for _, file := range files {
			if err := services.ValidateImage(file); err != nil {
				rejections = append(rejections, fileRejection{Name: file.Name, Reason: err.Error()})
				continue
			}
			accepted = append(accepted, file)
		}

		urls := services.UploadAll(r.Context(), h.uploader, accepted)

		h.responder.WriteJSON(w, map[string]interface{}{
			"urls":      urls,
			"rejected":  rejections,
			"uploaded":  len(urls),
			"submitted": len(files),
		})
	}
}

// readMultipartFiles reads every part under the "files" field into memory.
func readMultipartFiles(r *http.Request) ([]services.File, error) {
	if err := r.ParseMultipartForm(maxUploadFormMemory); err != nil {
		return nil, errs.NewBadRequestError("malformed multipart request")
	}
	if r.MultipartForm == nil {
		return nil, errs.NewBadRequestError("multipart form is required")
	}

	var files []services.File
	for _, header := range r.MultipartForm.File["files"] {
		file, err := readMultipartFile(header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readMultipartFile(header *multipart.FileHeader) (services.File, error) {
	part, err := header.Open()
	if err != nil {
		return services.File{}, errs.NewBadRequestError("failed to read uploaded file")
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return services.File{}, errs.NewBadRequestError("failed to read uploaded file")
	}

	return services.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
