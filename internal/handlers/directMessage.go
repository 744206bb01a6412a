package handlers

import (
	"encoding/json"
	"net/http"

	"concord-backend/internal/chat"
	"concord-backend/internal/hub"
	"concord-backend/internal/store"
)

// The direct message endpoints mirror the channel message ones, the only
// difference is which thread the mutation service runs against. Opening the
// conversation also gates access: a profile that is no party of it gets the
// same 404 as for a conversation that doesn't exist.

func CreateDirectMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, err := urlParamID(r, "conversationID")
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var input chat.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	thread, err := store.Conversation(r.Context(), conversationID)
	if err != nil {
		respondError(w, err)
		return
	}

	msg, err := chatService.Create(r.Context(), thread, profileID(r), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, msg)
}

func GetDirectMessageList(w http.ResponseWriter, r *http.Request) {
	conversationID, err := urlParamID(r, "conversationID")
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	thread, err := store.Conversation(r.Context(), conversationID)
	if err != nil {
		respondError(w, err)
		return
	}

	before, limit := pagingParams(r)

	messages, err := chatService.List(r.Context(), thread, profileID(r), before, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := hub.SubscribeChat(conversationID, sessionID(r)); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	respondJSON(w, messages)
}

func EditDirectMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, err := urlParamID(r, "conversationID")
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	directMessageID, err := urlParamID(r, "directMessageID")
	if err != nil {
		http.Error(w, "Invalid direct message ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	thread, err := store.Conversation(r.Context(), conversationID)
	if err != nil {
		respondError(w, err)
		return
	}

	msg, err := chatService.Edit(r.Context(), thread, profileID(r), directMessageID, input.Content)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, msg)
}

func DeleteDirectMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, err := urlParamID(r, "conversationID")
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	directMessageID, err := urlParamID(r, "directMessageID")
	if err != nil {
		http.Error(w, "Invalid direct message ID", http.StatusBadRequest)
		return
	}

	thread, err := store.Conversation(r.Context(), conversationID)
	if err != nil {
		respondError(w, err)
		return
	}

	msg, err := chatService.Delete(r.Context(), thread, profileID(r), directMessageID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, msg)
}
