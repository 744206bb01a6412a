package handlers

import (
	"net/http"

	"concord-backend/internal/store"
)

func GetMemberList(w http.ResponseWriter, r *http.Request) {
	serverID, err := urlParamID(r, "serverID")
	if err != nil {
		http.Error(w, "Invalid server ID", http.StatusBadRequest)
		return
	}

	if _, err := store.Member(r.Context(), profileID(r), serverID); err != nil {
		respondError(w, err)
		return
	}

	members, err := store.ServerMembers(r.Context(), serverID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, members)
}
