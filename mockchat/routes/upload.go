package routes

import (
	"errors"
	"io"
	"net/http"

	"mockchat/mockchat/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// multipartSlack covers form boundaries and headers around the file.
const multipartSlack = 1 << 20

func UploadRoutes(ctrl *controllers.UploadController) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(JSONTimeout))
	// POST /api/upload : multipart field "file"
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		if limit := ctrl.MaxBytes(); limit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)
		}
		file, header, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			writeError(w, r, controllers.ErrNoFile)
			return
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, r, controllers.ErrFileTooLarge)
				return
			}
			writeError(w, r, controllers.ErrNoFile)
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp, err := ctrl.Upload(r.Context(), header.Filename, data)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
	return r
}
