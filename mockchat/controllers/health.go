package controllers

import (
	"encoding/json"
	"net/http"
)

type HealthController struct {
	backend string
}

func NewHealthController(backend string) *HealthController {
	return &HealthController{backend: backend}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "store": h.backend})
}
