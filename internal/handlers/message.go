package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"concord-backend/internal/chat"
	"concord-backend/internal/hub"
	"concord-backend/internal/store"
)

func CreateMessage(w http.ResponseWriter, r *http.Request) {
	channelID, err := urlParamID(r, "channelID")
	if err != nil {
		http.Error(w, "Invalid channel ID", http.StatusBadRequest)
		return
	}

	var input chat.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	thread, err := store.Channel(r.Context(), channelID)
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

func GetMessageList(w http.ResponseWriter, r *http.Request) {
	channelID, err := urlParamID(r, "channelID")
	if err != nil {
		http.Error(w, "Invalid channel ID", http.StatusBadRequest)
		return
	}

	thread, err := store.Channel(r.Context(), channelID)
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

	// follow this channel's broadcast topics from now on
	if err := hub.SubscribeChat(channelID, sessionID(r)); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	respondJSON(w, messages)
}

func EditMessage(w http.ResponseWriter, r *http.Request) {
	channelID, err := urlParamID(r, "channelID")
	if err != nil {
		http.Error(w, "Invalid channel ID", http.StatusBadRequest)
		return
	}

	messageID, err := urlParamID(r, "messageID")
	if err != nil {
		http.Error(w, "Invalid message ID", http.StatusBadRequest)
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

	thread, err := store.Channel(r.Context(), channelID)
	if err != nil {
		respondError(w, err)
		return
	}

	msg, err := chatService.Edit(r.Context(), thread, profileID(r), messageID, input.Content)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, msg)
}

func DeleteMessage(w http.ResponseWriter, r *http.Request) {
	channelID, err := urlParamID(r, "channelID")
	if err != nil {
		http.Error(w, "Invalid channel ID", http.StatusBadRequest)
		return
	}

	messageID, err := urlParamID(r, "messageID")
	if err != nil {
		http.Error(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	thread, err := store.Channel(r.Context(), channelID)
	if err != nil {
		respondError(w, err)
		return
	}

	msg, err := chatService.Delete(r.Context(), thread, profileID(r), messageID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, msg)
}

func pagingParams(r *http.Request) (before int64, limit int) {
	before, _ = strconv.ParseInt(r.URL.Query().Get("before"), 10, 64)
	parsedLimit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return before, parsedLimit
}
