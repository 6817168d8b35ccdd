package routes

import (
	"net/http"

	"mockchat/mockchat/controllers"
	"mockchat/mockchat/utils/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func ConversationRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(JSONTimeout))
	// GET /api/conversations?userId= : sidebar list, newest first
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		list, err := ctrl.ListConversations(r.Context(), userIDFor(r, r.URL.Query().Get("userId")))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	})
	// GET /api/conversations/{id}?userId= : messages of one conversation
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		msgs, err := ctrl.GetConversation(r.Context(), userIDFor(r, r.URL.Query().Get("userId")), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	})
	// POST /api/conversations/{id}/title : set or regenerate the title
	r.Post("/{id}/title", func(w http.ResponseWriter, r *http.Request) {
		var req types.TitleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.UserID = userIDFor(r, req.UserID)
		resp, err := ctrl.SetTitle(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
	return r
}
