package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flo-kian-baban/connex-backend/api/controllers"
	"github.com/flo-kian-baban/connex-backend/api/middleware"
	"github.com/flo-kian-baban/connex-backend/internal/applications"
	"github.com/flo-kian-baban/connex-backend/internal/auth"
	"github.com/flo-kian-baban/connex-backend/internal/chat"
	"github.com/flo-kian-baban/connex-backend/internal/creators"
	"github.com/flo-kian-baban/connex-backend/internal/deliverables"
	"github.com/flo-kian-baban/connex-backend/internal/favorites"
	"github.com/flo-kian-baban/connex-backend/internal/notifications"
	"github.com/flo-kian-baban/connex-backend/internal/offers"
	"github.com/flo-kian-baban/connex-backend/internal/providers"
	"github.com/flo-kian-baban/connex-backend/internal/seed"
	"github.com/flo-kian-baban/connex-backend/pkg/auth/session"
	"github.com/flo-kian-baban/connex-backend/pkg/config"
	"github.com/flo-kian-baban/connex-backend/pkg/db"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
	"github.com/flo-kian-baban/connex-backend/pkg/redis"
	"github.com/flo-kian-baban/connex-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gcsClient gcs.Pinger,
	sessions sessionManager,
	authService auth.Service,
	googleAuthService auth.GoogleService,
	registerService auth.RegisterService,
	providerService providers.Service,
	creatorService creators.Service,
	offerService offers.Service,
	applicationService applications.Service,
	chatService chat.Service,
	deliverableService deliverables.Service,
	notificationsService notifications.Service,
	favoritesService favorites.Service,
	seedService seed.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// A nil *redis.Client wrapped in an interface is not a nil interface, so
	// resolve the optional dependencies to plain nil up front.
	var redisPinger interface{ Ping(context.Context) error }
	loginLimiter := passthrough
	registerLimiter := passthrough
	if redisClient != nil {
		redisPinger = redisClient
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
		registerLimiter = middleware.AuthRateLimit(registerPolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger, gcsClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate", controllers.PublicValidate(logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(registerLimiter).Post("/register", controllers.AuthRegister(registerService, logg))
		r.Get("/google/url", controllers.AuthGoogleURL(googleAuthService, logg))
		r.With(loginLimiter).Post("/google/callback", controllers.AuthGoogleCallback(googleAuthService, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
			r.Use(middleware.RateLimit(redisClient, logg))
		}

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/providers", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleProvider), logg))
			r.Get("/me", controllers.ProviderProfile(providerService, logg))
			r.Put("/me", controllers.ProviderUpdate(providerService, logg))
			r.Get("/me/google/connect-url", controllers.ProviderGoogleConnectURL(providerService, logg))
			r.Post("/me/google/connect", controllers.ProviderConnectGoogle(providerService, logg))
		})

		r.Route("/v1/creators", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleCreator), logg))
			r.Get("/me", controllers.CreatorProfile(creatorService, logg))
			r.Put("/me", controllers.CreatorUpdate(creatorService, logg))
		})

		r.Route("/v1/offers", func(r chi.Router) {
			r.Get("/", controllers.MarketplaceBrowse(offerService, logg))
			r.Get("/{offerId}", controllers.OfferDetail(offerService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleProvider), logg))
				r.Get("/mine", controllers.OfferListMine(offerService, logg))
				r.Post("/", controllers.OfferCreate(offerService, logg))
				r.Patch("/{offerId}", controllers.OfferUpdate(offerService, logg))
				r.Delete("/{offerId}", controllers.OfferDelete(offerService, logg))
				r.Post("/{offerId}/publish", controllers.OfferPublish(offerService, logg))
			})
		})

		r.Route("/v1/applications", func(r chi.Router) {
			r.Get("/", controllers.ApplicationList(applicationService, logg))
			r.Get("/{applicationId}", controllers.ApplicationDetail(applicationService, logg))
			r.Get("/{applicationId}/conversation", controllers.ApplicationConversation(chatService, logg))
			r.Get("/{applicationId}/deliverables", controllers.DeliverableList(deliverableService, logg))

			r.With(middleware.RequireRole(string(enums.UserRoleCreator), logg)).
				Post("/", controllers.ApplicationApply(applicationService, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleProvider), logg)).
				Post("/{applicationId}/decision", controllers.ApplicationDecision(applicationService, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleCreator), logg)).
				Post("/{applicationId}/deliverables", controllers.DeliverableUpload(deliverableService, cfg.Deliverables, logg))
		})

		r.With(middleware.RequireRole(string(enums.UserRoleProvider), logg)).
			Post("/v1/requests", controllers.DirectRequestCreate(applicationService, logg))

		r.Route("/v1/conversations", func(r chi.Router) {
			r.Get("/", controllers.ConversationList(chatService, logg))
			r.Get("/{conversationId}/messages", controllers.ConversationMessages(chatService, logg))
			r.Post("/{conversationId}/messages", controllers.MessageSend(chatService, logg))
			r.Post("/{conversationId}/read", controllers.ConversationMarkRead(chatService, logg))
		})

		r.Get("/v1/deliverables/{mediaId}/download-url", controllers.DeliverableDownloadURL(deliverableService, logg))

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Get("/unread-count", controllers.NotificationsUnreadCount(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
			r.Delete("/{notificationId}", controllers.DeleteNotification(notificationsService, logg))
		})

		r.Route("/v1/favorites", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleCreator), logg))
			r.Get("/", controllers.FavoriteList(favoritesService, logg))
			r.Get("/ids", controllers.FavoriteIDs(favoritesService, logg))
			r.Put("/{offerId}", controllers.FavoriteAdd(favoritesService, logg))
			r.Delete("/{offerId}", controllers.FavoriteRemove(favoritesService, logg))
		})
	})

	if !cfg.App.IsProd() {
		r.Post("/api/admin/v1/seed", controllers.AdminSeed(seedService, logg))
	}

	return r
}

func passthrough(next http.Handler) http.Handler { return next }
