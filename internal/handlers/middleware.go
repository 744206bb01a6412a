package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"concord-backend/internal/hub"
	"concord-backend/internal/jwt"
	"concord-backend/internal/keyValue"
)

type ProfileIDKeyType struct{}
type SessionIDKeyType struct{}

func AllowCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ProfileVerifier authenticates the request from its JWT cookie and passes
// the profile ID down via context. Profile existence is cached in keyValue
// so the database isn't hit on every request.
func ProfileVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jwtCookie, err := r.Cookie("JWT")
		if err != nil {
			sugar.Debug(err)
			switch {
			case errors.Is(err, http.ErrNoCookie):
				http.Error(w, "No jwt cookie was provided", http.StatusUnauthorized)
			default:
				http.Error(w, "Couldn't read jwt cookie", http.StatusInternalServerError)
			}
			return
		}

		profileToken, err := jwt.VerifyToken(jwtCookie.Value)
		if err != nil {
			sugar.Debug(err)
			http.Error(w, "Couldn't verify JWT", http.StatusUnauthorized)
			return
		}

		if time.Now().UTC().After(profileToken.ExpiresAt.UTC()) {
			http.Error(w, "Login expired", http.StatusUnauthorized)
			return
		}

		key := fmt.Sprintf("profile_exists:%d", profileToken.ProfileID)

		profileFound := false

		value, err := keyValue.Get(key)
		if err != nil {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}

		if value == "" { // profile isn't cached
			dbErr := db.QueryRow("SELECT EXISTS(SELECT 1 FROM profiles WHERE id = ?)", profileToken.ProfileID).Scan(&profileFound)
			if dbErr != nil {
				sugar.Error(dbErr)
				http.Error(w, "", http.StatusInternalServerError)
				return
			}
			if profileFound {
				if err := keyValue.Set(key, "y", 15*time.Minute); err != nil {
					sugar.Error(err)
					http.Error(w, "", http.StatusInternalServerError)
					return
				}
			}
		} else {
			profileFound = true
		}

		// a token may outlive its profile, delete it from the client
		if !profileFound {
			deleteJwtCookie := &http.Cookie{
				Name:     "JWT",
				Value:    "",
				Path:     "/",
				Expires:  time.Unix(0, 0),
				HttpOnly: true,
			}

			http.SetCookie(w, deleteJwtCookie)
			http.Error(w, "", http.StatusUnauthorized)
			return
		}

		// renew JWT and cookie
		if time.Now().UTC().Sub(profileToken.IssuedAt.Time) >= 15*time.Minute {
			updatedCookie, err := jwt.CreateToken(profileToken.Remember, profileToken.ProfileID)
			if err != nil {
				sugar.Error(err)
				http.Error(w, "Couldn't renew cookie", http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &updatedCookie)
		}

		ctx := context.WithValue(r.Context(), ProfileIDKeyType{}, profileToken.ProfileID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionVerifier requires a live WebSocket session, list fetches attach
// their broadcast subscription to it.
func SessionVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionCookie, err := r.Cookie("session")
		if err != nil {
			sugar.Debug(err)
			switch {
			case errors.Is(err, http.ErrNoCookie):
				http.Error(w, "No session cookie was provided", http.StatusUnauthorized)
			default:
				http.Error(w, "Couldn't read session cookie", http.StatusInternalServerError)
			}
			return
		}

		sessionID, err := strconv.ParseInt(sessionCookie.Value, 10, 64)
		if err != nil {
			sugar.Error(err)
			http.Error(w, "Session cookie is in improper format", http.StatusBadRequest)
			return
		}

		if _, exists := hub.GetClient(sessionID); !exists {
			http.Error(w, "You are not connected to websocket", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKeyType{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func profileID(r *http.Request) int64 {
	return r.Context().Value(ProfileIDKeyType{}).(int64)
}

func sessionID(r *http.Request) int64 {
	return r.Context().Value(SessionIDKeyType{}).(int64)
}
