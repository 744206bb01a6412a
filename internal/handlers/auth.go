package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"concord-backend/internal/jwt"
	"concord-backend/internal/models"
	"concord-backend/internal/snowflake"
	"concord-backend/internal/validator"

	playground "github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = playground.New(playground.WithRequiredStructEnabled())

func Login(w http.ResponseWriter, r *http.Request) {
	var login struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	var result struct {
		profileID int64
		password  []byte
	}
	err := db.QueryRow("SELECT id, password FROM profiles WHERE email = ?", login.Email).
		Scan(&result.profileID, &result.password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			sugar.Debug(err)
			http.Error(w, "", http.StatusUnauthorized)
		} else {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword(result.password, []byte(login.Password)); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusUnauthorized)
		return
	}

	cookie, err := jwt.CreateToken(r.URL.Query().Get("rememberMe") == "true", result.profileID)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &cookie)
}

func Register(w http.ResponseWriter, r *http.Request) {
	registerErrors := make(map[string]string)

	type Registration struct {
		Email           string `json:"email" validate:"required,email"`
		Username        string `json:"username" validate:"required"`
		DisplayName     string `json:"displayName"`
		Password        string `json:"password" validate:"eqfield=ConfirmPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	var registration Registration
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(registration); err != nil {
		var validateErrs playground.ValidationErrors
		if errors.As(err, &validateErrs) {
			for _, e := range validateErrs {
				registerErrors[e.Field()] = e.Tag()
			}
		} else {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}
	}
	if err := validator.Username(registration.Username); err != nil {
		registerErrors["Username"] = err.Error()
	}
	if err := validator.Password(registration.Password); err != nil {
		registerErrors["Password"] = err.Error()
	}
	if registration.DisplayName == "" {
		registration.DisplayName = registration.Username
	}
	if err := validator.DisplayName(registration.DisplayName); err != nil {
		registerErrors["DisplayName"] = err.Error()
	}

	if len(registerErrors) != 0 {
		// sends back 400 with the form field errors
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(registerErrors); err != nil {
			sugar.Error(err)
		}
		return
	}

	var taken bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM profiles WHERE email = ? OR username = ?)",
		registration.Email, registration.Username).Scan(&taken)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	if taken {
		http.Error(w, "Email or username is already taken", http.StatusConflict)
		return
	}

	profileIDValue, err := snowflake.Generate()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(registration.Password), 12)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	profile := models.Profile{
		ID:          profileIDValue,
		Email:       registration.Email,
		UserName:    registration.Username,
		DisplayName: registration.DisplayName,
		Password:    passwordBytes,
	}

	_, err = db.Exec("INSERT INTO profiles (id, email, username, display_name, picture, password) VALUES (?, ?, ?, ?, ?, ?)",
		profile.ID, profile.Email, profile.UserName, profile.DisplayName, "", profile.Password)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	cookie, err := jwt.CreateToken(false, profile.ID)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &cookie)
	respondJSON(w, profile)
}

func NewSession(w http.ResponseWriter, r *http.Request) {
	sessionIDValue, err := snowflake.Generate()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	sessionCookie := http.Cookie{
		Name:     "session",
		Value:    fmt.Sprint(sessionIDValue),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &sessionCookie)
}
