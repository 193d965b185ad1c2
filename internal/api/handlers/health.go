package handlers

import "net/http"

// HealthResponse - ответ /health
type HealthResponse struct {
	Status   string `json:"status"`
	Exchange string `json:"exchange,omitempty"`
}

// Health отвечает, что процесс жив; биржу не опрашивает
// GET /health
func Health(exchange string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok", Exchange: exchange})
	}
}
