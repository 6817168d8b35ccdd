package routes

import (
	"net/http"

	"mockchat/mockchat/controllers"
	"mockchat/mockchat/utils/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(JSONTimeout))
	r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
		var req types.TokenRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		token, err := ctrl.IssueToken(req.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, types.TokenResponse{Token: token})
	})
	return r
}
