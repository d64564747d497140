package handlers

import (
	"net/http"

	"points-feed/internal/middleware"
	"points-feed/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Services bundles everything the HTTP layer calls into. Uploads may be nil
// when no bucket is configured; the upload route is then not mounted.
type Services struct {
	Users           *services.UserService
	Authentications *services.AuthenticationService
	Friendships     *services.FriendshipService
	Gate            *services.VisibilityGate
	Stream          *services.StreamService
	Posts           *services.PostService
	Awards          *services.AwardService
	Uploads         *services.UploadService

	PageSize    int
	MaxPageSize int
}

// NewRouter builds the chi router for the /api/v1 surface
func NewRouter(svc Services) http.Handler {
	userHandler := NewUserHandler(svc.Users, svc.Authentications)
	streamHandler := NewStreamHandler(svc.Users, svc.Gate, svc.Stream, svc.PageSize, svc.MaxPageSize)
	postHandler := NewPostHandler(svc.Posts)
	awardHandler := NewAwardHandler(svc.Awards)
	friendshipHandler := NewFriendshipHandler(svc.Friendships)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)
		r.Get("/users/{user_id}", userHandler.GetUser)

		// Streams are readable anonymously; the gate decides
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthMiddleware(svc.Users))
			r.Get("/users/{user_id}/stream", streamHandler.GetStream)
			r.Get("/users/{user_id}/relations/{type}", streamHandler.GetRelation)
			r.Get("/users/{user_id}/pages", streamHandler.GetPages)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(svc.Users))

			r.Patch("/me", userHandler.UpdateMe)
			r.Delete("/me", userHandler.DeleteMe)
			r.Post("/authentications", userHandler.LinkAuthentication)

			r.Post("/posts", postHandler.CreatePost)
			r.Delete("/posts/{post_id}", postHandler.DeletePost)
			r.Post("/posts/{post_id}/repost", postHandler.Repost)
			r.Get("/posts/{post_id}/reposted", postHandler.Reposted)
			r.Get("/posts/{post_id}/awards/{kind}", awardHandler.CanAward)
			r.Post("/posts/{post_id}/awards", awardHandler.GrantAward)

			r.Post("/friendships", friendshipHandler.CreateFriendship)
			r.Delete("/friendships/{friend_id}", friendshipHandler.DeleteFriendship)
			r.Get("/friends", friendshipHandler.ListFriends)

			if svc.Uploads != nil {
				r.Post("/uploads", NewUploadHandler(svc.Uploads).CreateUpload)
			}
		})
	})

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
