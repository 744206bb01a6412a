package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"concord-backend/internal/chat"
	"concord-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger
var db *sql.DB
var chatService *chat.Service

func Setup(isHttps bool, cfg *models.ConfigFile, _sugar *zap.SugaredLogger, _db *sql.DB, _chatService *chat.Service) error {
	sugar = _sugar
	db = _db
	chatService = _chatService

	r := Router(cfg)

	address := fmt.Sprintf("%s:%s", cfg.Address, cfg.Port)

	if isHttps {
		return http.ListenAndServeTLS(address, cfg.TlsCert, cfg.TlsKey, r)
	}
	return http.ListenAndServe(address, r)
}

func Router(cfg *models.ConfigFile) chi.Router {
	r := chi.NewRouter()

	if cfg.Cors {
		r.Use(AllowCors)
	}
	if cfg.PrintHttpRequests {
		r.Use(middleware.Logger)
	}

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/login", Login)
			r.Post("/register", Register)
			r.With(ProfileVerifier).Get("/newSession", NewSession)
			r.With(ProfileVerifier).Get("/isLoggedIn", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
		})

		api.Route("/user", func(r chi.Router) {
			r.Use(ProfileVerifier)
			r.Get("/fetch", GetProfileInfo)
			r.Post("/update", UpdateProfileInfo)
		})

		api.Route("/servers", func(r chi.Router) {
			r.Use(ProfileVerifier)
			r.Post("/", CreateServer)
			r.Get("/", GetServerList)
			r.Post("/{serverID}/join", JoinServer)
			r.Post("/{serverID}/channels", CreateChannel)
			r.With(SessionVerifier).Get("/{serverID}/channels", GetChannelList)
			r.Get("/{serverID}/members", GetMemberList)
		})

		api.Route("/channels/{channelID}/messages", func(r chi.Router) {
			r.Use(ProfileVerifier)
			r.Post("/", CreateMessage)
			r.With(SessionVerifier).Get("/", GetMessageList)
			r.Patch("/{messageID}", EditMessage)
			r.Delete("/{messageID}", DeleteMessage)
		})

		api.Route("/conversations", func(r chi.Router) {
			r.Use(ProfileVerifier)
			r.Post("/", OpenConversation)
			r.Route("/{conversationID}/direct-messages", func(r chi.Router) {
				r.Post("/", CreateDirectMessage)
				r.With(SessionVerifier).Get("/", GetDirectMessageList)
				r.Patch("/{directMessageID}", EditDirectMessage)
				r.Delete("/{directMessageID}", DeleteDirectMessage)
			})
		})

		api.With(ProfileVerifier).Post("/files", UploadFile)
	})

	var websocketPath string

	if cfg.BehindNginx {
		websocketPath = "/ws/"
	} else {
		websocketPath = "/ws"
		r.Handle("/cdn/*", http.StripPrefix("/cdn/", http.FileServer(http.Dir("./public"))))
	}

	r.With(ProfileVerifier).Get(websocketPath, HandleWebSocket)

	return r
}
