package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"concord-backend/internal/chat"
	"concord-backend/internal/models"
	"concord-backend/internal/validator"
)

func GetProfileInfo(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	var picture sql.NullString

	err := db.QueryRowContext(r.Context(),
		"SELECT id, email, username, display_name, picture FROM profiles WHERE id = ?", profileID(r)).
		Scan(&profile.ID, &profile.Email, &profile.UserName, &profile.DisplayName, &picture)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, chat.ErrNotFound)
		} else {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
		}
		return
	}
	profile.Picture = picture.String

	respondJSON(w, profile)
}

func UpdateProfileInfo(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DisplayName string `json:"displayName"`
		Picture     string `json:"picture"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	if err := validator.DisplayName(input.DisplayName); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := db.ExecContext(r.Context(),
		"UPDATE profiles SET display_name = ?, picture = ? WHERE id = ?",
		input.DisplayName, input.Picture, profileID(r))
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
