package server

// Route path constants. All application routes are defined here to keep the
// paths consistent between the router and the handlers.
const (
	// Auth
	RouteGoogleLogin    = "/login/google"
	RouteGoogleCallback = "/login/google/callback"
	RouteRefresh        = "/refresh"

	// Users
	RouteUsers    = "/users"
	RouteUserByID = "/users/{id}"
	RouteUserRole = "/users/{id}/role"

	// Blogs & comments
	RouteBlogs        = "/blogs"
	RouteBlogByID     = "/blogs/{id}"
	RouteBlogComments = "/blogs/{id}/comments"
	RouteCommentByID  = "/comments/{id}"

	// Moderation & history
	RouteAdminActions        = "/admin-actions"
	RouteAdminActionsByAdmin = "/admin-actions/admin/{id}"
	RouteLoginHistoryByUser  = "/login-history/user/{id}"

	// Search
	RouteSearch = "/search"
)
