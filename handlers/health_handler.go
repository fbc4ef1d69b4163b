package handlers

import "net/http"

// HealthHandler handles GET /api/health.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, err)
	}
}
