package handlers

import (
	"encoding/json"
	"net/http"

	"concord-backend/internal/chat"
	"concord-backend/internal/store"
)

// OpenConversation resolves or lazily creates the conversation between the
// actor and another member of the same server.
func OpenConversation(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ServerID int64 `json:"serverID,string"`
		MemberID int64 `json:"memberID,string"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}
	if input.ServerID == 0 || input.MemberID == 0 {
		http.Error(w, "Invalid server or member ID", http.StatusBadRequest)
		return
	}

	actor, err := store.Member(r.Context(), profileID(r), input.ServerID)
	if err != nil {
		respondError(w, err)
		return
	}

	target, err := store.MemberByID(r.Context(), input.MemberID)
	if err != nil {
		respondError(w, err)
		return
	}
	if target.ServerID != actor.ServerID {
		respondError(w, chat.ErrNotFound)
		return
	}

	conversation, err := store.FindOrCreateConversation(r.Context(), actor.ID, target.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, conversation)
}
