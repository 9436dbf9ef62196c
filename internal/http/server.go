package httpapi

import (
	"net/http"
	"time"

	"insaka-backend-go/internal/config"
	"insaka-backend-go/internal/services"
	"insaka-backend-go/internal/webfetch"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB        *sqlx.DB
	Config    config.Config
	Tokens    services.TokenService
	Feed      *services.FeedHub
	Telegram  *services.TelegramAnnouncer
	Fetcher   *webfetch.Fetcher
}

func NewServer(db *sqlx.DB, cfg config.Config, feed *services.FeedHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		DB:       db,
		Config:   cfg,
		Tokens:   tokens,
		Feed:     feed,
		Telegram: services.NewTelegramAnnouncer(cfg.TelegramBotToken, cfg.TelegramAnnounceChat),
		Fetcher:  webfetch.New(cfg.FetchCacheMinutes),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/qr-login", s.QRLogin)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/admin-login", s.AdminLogin)

		api.Route("/me", func(me chi.Router) {
			me.Use(WithAuth(s.Tokens))
			me.Get("/", s.Me)
			me.Put("/profile", s.UpdateProfile)
			me.Get("/checkins", s.MyCheckIns)
			me.Get("/badge-qr", s.BadgeQR)
		})

		api.Route("/delegates", func(delegates chi.Router) {
			delegates.Use(WithAuth(s.Tokens))
			delegates.Get("/", s.ListDelegates)
			delegates.Get("/{delegateId}", s.GetDelegate)
		})

		api.Route("/networking", func(networking chi.Router) {
			networking.Use(WithAuth(s.Tokens))
			networking.Post("/connections", s.SendConnectionRequest)
			networking.Post("/requests/{requestId}/respond", s.RespondToRequest)
			networking.Get("/connections", s.MyConnections)
			networking.Get("/status/{delegateId}", s.ConnectionStatus)
			networking.Get("/recommendations", s.Recommendations)
			networking.Get("/requests", s.PendingRequests)
			networking.Get("/unread-count", s.NetworkingUnread)
			networking.Get("/interactions", s.MyInteractions)
			networking.Post("/messages", s.SendMessage)
			networking.Get("/messages/{delegateId}", s.MessageThread)
			networking.Post("/messages/{delegateId}/read", s.MarkThreadRead)
			networking.Post("/contacts/share", s.ShareContact)
			networking.Post("/meetings", s.RequestMeeting)
		})

		api.Route("/notifications", func(notifications chi.Router) {
			notifications.Use(WithAuth(s.Tokens))
			notifications.Get("/", s.ListNotifications)
			notifications.Get("/unread-count", s.UnreadNotifications)
			notifications.Post("/{notificationId}/read", s.MarkNotificationRead)
			notifications.Post("/read-all", s.MarkAllNotificationsRead)
		})

		api.Route("/content", func(content chi.Router) {
			content.Get("/announcements", s.ListAnnouncements)
			content.Get("/news", s.ListNews)
			content.Get("/posts", s.ListPRPosts)
			content.Get("/posts/{postId}/comments", s.ListPostComments)

			content.Group(func(authed chi.Router) {
				authed.Use(WithAuth(s.Tokens))
				authed.Post("/posts/{postId}/view", s.ViewPost)
				authed.Post("/posts/{postId}/like", s.ToggleLikePost)
				authed.Post("/posts/{postId}/share", s.SharePost)
				authed.Post("/posts/{postId}/comments", s.CommentOnPost)
			})
		})

		api.Route("/directory", func(directory chi.Router) {
			directory.Get("/agenda", s.Agenda)
			directory.Get("/speakers", s.Speakers)
			directory.Get("/exhibitors", s.Exhibitors)
			directory.Get("/sponsors", s.Sponsors)
			directory.Get("/materials", s.Materials)
			directory.Get("/venue", s.Venue)
			directory.Get("/site-preview", s.SitePreview)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireRole("ADMIN"))

			admin.Get("/stats", s.AdminStats)
			admin.Get("/metrics/history", s.MetricsHistory)
			admin.Post("/notifications/purge", s.AdminPurgeNotifications)

			admin.Route("/delegates", func(delegates chi.Router) {
				delegates.Post("/", s.AdminCreateDelegate)
				delegates.Put("/{delegateId}", s.AdminUpdateDelegate)
				delegates.Post("/check-in", s.AdminCheckIn)
				delegates.Post("/{delegateId}/day-check-in", s.AdminDayCheckIn)
				delegates.Post("/import", s.AdminImportRoster)
				delegates.Get("/export", s.AdminExportRoster)
				delegates.Get("/{delegateId}/badge-qr", s.AdminBadgeQR)
			})

			admin.Route("/content", func(content chi.Router) {
				content.Post("/announcements", s.AdminCreateAnnouncement)
				content.Delete("/announcements/{announcementId}", s.AdminDeleteAnnouncement)
				content.Post("/news", s.AdminCreateNews)
				content.Delete("/news/{newsId}", s.AdminDeleteNews)
				content.Post("/posts", s.AdminCreatePRPost)
				content.Delete("/posts/{postId}", s.AdminDeletePRPost)
			})

			admin.Route("/directory", func(directory chi.Router) {
				directory.Post("/speakers", s.AdminUpsertSpeaker)
				directory.Delete("/speakers/{id}", s.AdminDeleteSpeaker)
				directory.Post("/agenda", s.AdminUpsertSession)
				directory.Delete("/agenda/{id}", s.AdminDeleteSession)
				directory.Post("/exhibitors", s.AdminUpsertExhibitor)
				directory.Delete("/exhibitors/{id}", s.AdminDeleteExhibitor)
				directory.Post("/sponsors", s.AdminUpsertSponsor)
				directory.Delete("/sponsors/{id}", s.AdminDeleteSponsor)
				directory.Post("/materials", s.AdminAddMaterial)
				directory.Delete("/materials/{id}", s.AdminDeleteMaterial)
				directory.Put("/venue", s.AdminSaveVenue)
			})
		})

		api.Route("/media", func(media chi.Router) {
			media.With(WithAuth(s.Tokens), RequireRole("ADMIN")).Post("/uploads/{bucket}", s.UploadMedia)
			media.With(WithAuth(s.Tokens)).Post("/uploads/badge/self", s.UploadBadgePhoto)
		})
	})

	r.Get("/media/assets/{assetId}/content", s.MediaContent)
	r.Get("/ws/feed", s.FeedSocket)
	return r
}
