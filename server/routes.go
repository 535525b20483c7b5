package server

func (s *Server) initRoutes() {
	// Browsers send a bare OPTIONS preflight before any cross-origin request;
	// the method-specific patterns below would 405 it before the CORS
	// middleware ran, so preflights get their own catch-all route.
	s.RegisterRouteFunc("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))

	// LOGIN
	s.RegisterRouteFunc("GET "+RouteGoogleLogin, ChainMiddleware(s.GoogleLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))

	// USERS
	s.RegisterRouteFunc("POST "+RouteUsers, ChainMiddleware(s.CreateUserHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteUserByID, ChainMiddleware(s.GetUserHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("PUT "+RouteUserRole, ChainMiddleware(s.UpdateUserRoleHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("DELETE "+RouteUserByID, ChainMiddleware(s.DeleteUserHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))

	// BLOGS
	s.RegisterRouteFunc("POST "+RouteBlogs, ChainMiddleware(s.CreateBlogHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteBlogByID, ChainMiddleware(s.GetBlogHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("PUT "+RouteBlogByID, ChainMiddleware(s.UpdateBlogHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("DELETE "+RouteBlogByID, ChainMiddleware(s.DeleteBlogHandler(), s.APIMiddleware(s.RequireAuth())...))

	// COMMENTS
	s.RegisterRouteFunc("POST "+RouteBlogComments, ChainMiddleware(s.CreateCommentHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteBlogComments, ChainMiddleware(s.ListCommentsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("DELETE "+RouteCommentByID, ChainMiddleware(s.DeleteCommentHandler(), s.APIMiddleware(s.RequireAuth())...))

	// MODERATION & HISTORY
	s.RegisterRouteFunc("POST "+RouteAdminActions, ChainMiddleware(s.CreateAdminActionHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))
	s.RegisterRouteFunc("GET "+RouteAdminActionsByAdmin, ChainMiddleware(s.ListAdminActionsHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))
	s.RegisterRouteFunc("GET "+RouteLoginHistoryByUser, ChainMiddleware(s.ListLoginHistoryHandler(), s.APIMiddleware(s.RequireAuth())...))

	// SEARCH
	s.RegisterRouteFunc("GET "+RouteSearch, ChainMiddleware(s.SearchHandler(), s.APIMiddleware()...))
}
