package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"concord-backend/internal/chat"
	"concord-backend/internal/models"
	"concord-backend/internal/snowflake"
	"concord-backend/internal/store"
)

func CreateServer(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		input.Name = "New Server"
	}

	serverID, err := snowflake.Generate()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	memberID, err := snowflake.Generate()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	server := models.Server{
		ID:      serverID,
		OwnerID: profileID(r),
		Name:    input.Name,
	}

	tx, err := db.BeginTx(r.Context(), nil)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO servers (id, owner_id, name) VALUES (?, ?, ?)",
		server.ID, server.OwnerID, server.Name)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	// the creator joins their own server as ADMIN
	_, err = tx.Exec("INSERT INTO members (id, server_id, profile_id, role) VALUES (?, ?, ?, ?)",
		memberID, server.ID, server.OwnerID, chat.RoleAdmin)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	respondJSON(w, server)
}

func GetServerList(w http.ResponseWriter, r *http.Request) {
	rows, err := db.QueryContext(r.Context(), `
		SELECT servers.id, servers.owner_id, servers.name, servers.picture, servers.banner
		FROM servers
		JOIN members ON members.server_id = servers.id
		WHERE members.profile_id = ?
		ORDER BY servers.id`,
		profileID(r))
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	servers := []models.Server{}
	for rows.Next() {
		var server models.Server
		var picture, banner sql.NullString
		if err := rows.Scan(&server.ID, &server.OwnerID, &server.Name, &picture, &banner); err != nil {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}
		server.Picture = picture.String
		server.Banner = banner.String
		servers = append(servers, server)
	}
	if err := rows.Err(); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	respondJSON(w, servers)
}

func JoinServer(w http.ResponseWriter, r *http.Request) {
	serverID, err := urlParamID(r, "serverID")
	if err != nil {
		http.Error(w, "Invalid server ID", http.StatusBadRequest)
		return
	}

	var exists bool
	err = db.QueryRowContext(r.Context(), "SELECT EXISTS(SELECT 1 FROM servers WHERE id = ?)", serverID).Scan(&exists)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	if !exists {
		respondError(w, chat.ErrNotFound)
		return
	}

	// joining twice just returns the existing membership
	member, err := store.Member(r.Context(), profileID(r), serverID)
	if err == nil {
		respondJSON(w, member)
		return
	}
	if !errors.Is(err, chat.ErrNotFound) {
		respondError(w, err)
		return
	}

	memberID, err := snowflake.Generate()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	_, err = db.ExecContext(r.Context(), "INSERT INTO members (id, server_id, profile_id, role) VALUES (?, ?, ?, ?)",
		memberID, serverID, profileID(r), chat.RoleGuest)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	member, err = store.MemberByID(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, member)
}
