package handlers

import (
	"encoding/json"
	"net/http"

	"concord-backend/internal/chat"
	"concord-backend/internal/hub"
	"concord-backend/internal/models"
	"concord-backend/internal/snowflake"
	"concord-backend/internal/store"
)

func validChannelType(channelType string) bool {
	switch channelType {
	case "TEXT", "AUDIO", "VIDEO":
		return true
	}
	return false
}

func CreateChannel(w http.ResponseWriter, r *http.Request) {
	serverID, err := urlParamID(r, "serverID")
	if err != nil {
		http.Error(w, "Invalid server ID", http.StatusBadRequest)
		return
	}

	var input struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		input.Name = "New Channel"
	}
	if input.Type == "" {
		input.Type = "TEXT"
	}
	if !validChannelType(input.Type) {
		http.Error(w, "Invalid channel type", http.StatusBadRequest)
		return
	}

	actor, err := store.Member(r.Context(), profileID(r), serverID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !actor.Role.Elevated() {
		sugar.Warnf("Member ID [%d] tried to create a channel in server ID [%d] without an elevated role", actor.ID, serverID)
		respondError(w, chat.ErrForbidden)
		return
	}

	channelID, err := snowflake.Generate()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	channel := models.Channel{
		ID:       channelID,
		ServerID: serverID,
		Name:     input.Name,
		Type:     input.Type,
	}

	_, err = db.ExecContext(r.Context(), "INSERT INTO channels (id, server_id, name, type) VALUES (?, ?, ?, ?)",
		channel.ID, channel.ServerID, channel.Name, channel.Type)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	// best-effort, members with a stale channel list refetch on next visit
	if err := hub.Emit(hub.ServerTopic(serverID), channel); err != nil {
		sugar.Errorf("dropping channel broadcast for server ID %d: %v", serverID, err)
	}

	respondJSON(w, channel)
}

func GetChannelList(w http.ResponseWriter, r *http.Request) {
	serverID, err := urlParamID(r, "serverID")
	if err != nil {
		http.Error(w, "Invalid server ID", http.StatusBadRequest)
		return
	}

	if _, err := store.Member(r.Context(), profileID(r), serverID); err != nil {
		respondError(w, err)
		return
	}

	// ascending ID is insertion order, which is display order
	rows, err := db.QueryContext(r.Context(),
		"SELECT id, server_id, name, type FROM channels WHERE server_id = ? ORDER BY id", serverID)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	channels := []models.Channel{}
	for rows.Next() {
		var channel models.Channel
		if err := rows.Scan(&channel.ID, &channel.ServerID, &channel.Name, &channel.Type); err != nil {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if err := hub.SubscribeServer(serverID, sessionID(r)); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	respondJSON(w, channels)
}
