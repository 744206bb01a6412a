package handlers

import (
	"net/http"

	"concord-backend/internal/hub"
)

func HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	hub.HandleClient(w, r, profileID(r))
}
