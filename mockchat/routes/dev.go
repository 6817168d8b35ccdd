package routes

import (
	"net/http"

	"mockchat/mockchat/controllers"
	"mockchat/mockchat/utils/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DevRoutes holds reset tooling; only mounted when dev routes are enabled.
func DevRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(JSONTimeout))
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.Clear(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, types.StatusResponse{Status: "All user conversations cleared."})
	})
	return r
}
