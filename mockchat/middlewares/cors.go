package middlewares

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Cors lets the browser client call the API from the origins in allowed
// ("*" allows any).
func Cors(allowed []string) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	})
}
