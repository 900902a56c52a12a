package routes

import (
	"net/http"

	"mingle/auth"
	"mingle/chat"
	"mingle/friends"
	"mingle/middleware"
	"mingle/outings"
	"mingle/profile"
	"mingle/ratelim"
	"mingle/recs"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(middleware.Authenticate(auth.RefreshToken)))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/profile", ratelim.RateLimit(middleware.Authenticate(profile.EditProfile)))
	router.DELETE("/api/profile", middleware.Authenticate(profile.DeleteProfile))
	router.POST("/api/profile/avatar", ratelim.RateLimit(middleware.Authenticate(profile.UploadAvatar)))
	router.GET("/api/user/:username", ratelim.RateLimit(profile.GetUserProfile))
}

func AddFriendRoutes(router *httprouter.Router) {
	router.GET("/api/friends", middleware.Authenticate(friends.GetFriends))
	router.GET("/api/friends/requests", middleware.Authenticate(friends.GetPendingRequests))
	router.POST("/api/friends/:userid/request", ratelim.RateLimit(middleware.Authenticate(friends.SendFriendRequest)))
	router.PUT("/api/friends/requests/:requestid/accept", middleware.Authenticate(friends.AcceptFriendRequest))
	router.PUT("/api/friends/requests/:requestid/decline", middleware.Authenticate(friends.DeclineFriendRequest))
	router.DELETE("/api/friends/:userid", middleware.Authenticate(friends.RemoveFriend))
}

func AddOutingRoutes(router *httprouter.Router) {
	router.POST("/api/outings", ratelim.RateLimit(middleware.Authenticate(outings.CreateOuting)))
	router.GET("/api/outings", middleware.Authenticate(outings.GetOutings))
	router.POST("/api/invites/join", ratelim.RateLimit(middleware.Authenticate(outings.JoinOuting)))
	router.GET("/api/outings/:id", middleware.Authenticate(outings.GetOuting))
	router.PUT("/api/outings/:id", middleware.Authenticate(outings.UpdateOuting))
	router.DELETE("/api/outings/:id", middleware.Authenticate(outings.DeleteOuting))
	router.GET("/api/outings/:id/members", middleware.Authenticate(outings.GetMembers))

	router.PUT("/api/outings/:id/preferences", middleware.Authenticate(outings.SetPreference))
	router.GET("/api/outings/:id/preferences", middleware.Authenticate(outings.GetPreferences))

	router.GET("/api/outings/:id/plans", ratelim.RateLimit(middleware.Authenticate(outings.GetOutingPlans)))
	router.POST("/api/outings/:id/plans", ratelim.RateLimit(middleware.Authenticate(outings.StoreOutingPlans)))
	router.POST("/api/outings/:id/plans/:index/select", middleware.Authenticate(outings.SelectPlan))
	router.GET("/api/outings/:id/pins", middleware.Authenticate(outings.GetPins))

	router.GET("/api/outings/:id/plans/:index/pdf", ratelim.RateLimit(middleware.Authenticate(outings.ExportPlanPDF)))
	router.GET("/api/outings/:id/invite/qr", middleware.Authenticate(outings.InviteQR))

	router.GET("/api/outings/:id/recommendations", ratelim.RateLimit(middleware.Authenticate(recs.GetRecommendations)))
}

func AddChatRoutes(router *httprouter.Router, hub *chat.Hub) {
	router.GET("/ws/chat/:room", middleware.Authenticate(chat.WebSocketHandler(hub)))
	router.GET("/api/outings/:id/messages", middleware.Authenticate(chat.GetMessages))
}
