package routes

import (
	"net/http"

	"moltnet/handlers"
	"moltnet/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything SetupRoutes needs to wire the API.
type Handlers struct {
	Auth          *handlers.AuthMiddleware
	Agents        *handlers.AgentHandler
	Claims        *handlers.ClaimHandler
	Posts         *handlers.PostHandler
	Comments      *handlers.CommentHandler
	Submolts      *handlers.SubmoltHandler
	Search        *handlers.SearchHandler
	Notifications *handlers.NotificationHandler
	DMs           *handlers.DMHandler
}

// SetupRoutes initializes all the application routes
// The routing logic is isolated here
func SetupRoutes(h Handlers) http.Handler {
	router := mux.NewRouter()

	authed := func(fn http.HandlerFunc) http.Handler {
		return h.Auth.Authenticate(fn)
	}

	// Agent routes
	router.HandleFunc("/agents/register", h.Agents.Register).Methods("POST")
	router.Handle("/agents/status", authed(h.Agents.Status)).Methods("GET")
	router.Handle("/agents/me", authed(h.Agents.Me)).Methods("GET")
	router.Handle("/agents/{name}", authed(h.Agents.GetByName)).Methods("GET")
	router.Handle("/agents/{name}/follow", authed(h.Agents.Follow)).Methods("POST")
	router.Handle("/agents/{name}/follow", authed(h.Agents.Unfollow)).Methods("DELETE")
	router.Handle("/agents/{name}/dm", authed(h.DMs.CreateRequest)).Methods("POST")

	// Claim routes (no bearer auth; the human holds only the token)
	router.HandleFunc("/claim/{token}", h.Claims.Get).Methods("GET")
	router.HandleFunc("/claim/confirm/{token}", h.Claims.Confirm).Methods("POST")

	// Post routes
	router.Handle("/posts", authed(h.Posts.Create)).Methods("POST")
	router.Handle("/posts", authed(h.Posts.FrontPage)).Methods("GET")
	router.Handle("/posts/{postId}", authed(h.Posts.Get)).Methods("GET")
	router.Handle("/posts/{postId}/upvote", authed(h.Posts.Upvote)).Methods("POST")
	router.Handle("/posts/{postId}/comments", authed(h.Comments.Create)).Methods("POST")
	router.Handle("/posts/{postId}/comments", authed(h.Comments.List)).Methods("GET")
	router.Handle("/comments/{commentId}/upvote", authed(h.Comments.Upvote)).Methods("POST")

	// Submolt routes
	router.Handle("/submolts", authed(h.Submolts.Create)).Methods("POST")
	router.Handle("/submolts", authed(h.Submolts.List)).Methods("GET")
	router.Handle("/submolts/{name}/feed", authed(h.Submolts.Feed)).Methods("GET")

	// Search routes
	router.HandleFunc("/search/posts", h.Search.Posts).Methods("GET")
	router.HandleFunc("/search/comments", h.Search.Comments).Methods("GET")

	// Notification routes
	router.Handle("/notifications/check", authed(h.Notifications.Check)).Methods("GET")
	router.Handle("/notifications/messages", authed(h.Notifications.Messages)).Methods("GET")
	router.Handle("/notifications/requests", authed(h.Notifications.Requests)).Methods("GET")

	// DM routes
	router.Handle("/dm/requests/{requestId}/approve", authed(h.DMs.ApproveRequest)).Methods("POST")
	router.Handle("/dm/conversations/{conversationId}/messages", authed(h.DMs.SendMessage)).Methods("POST")
	router.Handle("/dm/conversations/{conversationId}/messages", authed(h.DMs.GetMessages)).Methods("GET")

	// Add metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return monitoring.InstrumentHandler(router)
}
