package server

import (
	"net/http"

	"github.com/jrsteele09/sop-console/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	page := func(h http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
		return ChainMiddleware(h, s.HTMLMiddleWare(append([]func(http.HandlerFunc) http.HandlerFunc{s.RequireSession()}, mw...)...)...)
	}
	api := func(h http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
		return ChainMiddleware(h, s.APIMiddleware(append([]func(http.HandlerFunc) http.HandlerFunc{s.RequireSession()}, mw...)...)...)
	}
	admin := s.RequireRole(users.RoleAdmin)
	editor := s.RequireRole(users.RoleAdmin, users.RoleManager)

	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteFunc("POST "+RouteActivity, ChainMiddleware(s.ActivityHandler(), s.APIMiddleware(s.RequirePassiveSession())...))

	// Pages
	s.RegisterRouteFunc("GET "+RouteDashboard+"{$}", page(s.DashboardHandler()))
	s.RegisterRouteFunc("GET "+RouteChecklists, page(s.ChecklistsPageHandler()))
	s.RegisterRouteFunc("GET "+RouteSOPs, page(s.SOPsPageHandler()))
	s.RegisterRouteFunc("GET "+RouteSOP, page(s.SOPPageHandler()))
	s.RegisterRouteFunc("GET "+RouteImprovements, page(s.ImprovementsPageHandler()))
	s.RegisterRouteFunc("GET "+RouteProfile, page(s.ProfilePageHandler()))
	s.RegisterRouteFunc("GET "+RouteSettings, page(s.SettingsPageHandler(), admin))

	// Account
	s.RegisterRouteFunc("GET "+RouteAPIMe, api(s.MeHandler()))
	s.RegisterRouteFunc("PUT "+RouteAPIProfile, api(s.UpdateProfileHandler()))
	s.RegisterRouteFunc("POST "+RouteAPIPassword, api(s.ChangePasswordHandler()))
	s.RegisterRouteFunc("GET "+RouteAPIUsers, api(s.ListUsersHandler()))
	s.RegisterRouteFunc("POST "+RouteAPIUsers, api(s.RegisterUserHandler(), admin))
	s.RegisterRouteFunc("GET "+RouteAPIGroups, api(s.ListGroupsHandler()))

	// Checklists
	s.RegisterRouteFunc("GET "+RouteAPIChecklists, api(s.ListChecklistsHandler()))
	s.RegisterRouteFunc("POST "+RouteAPIChecklists, api(s.CreateChecklistHandler(), editor))
	s.RegisterRouteFunc("GET "+RouteAPIChecklist, api(s.GetChecklistHandler()))
	s.RegisterRouteFunc("PATCH "+RouteAPIChecklist, api(s.PatchChecklistHandler(), editor))
	s.RegisterRouteFunc("DELETE "+RouteAPIChecklist, api(s.DeleteChecklistHandler(), editor))
	s.RegisterRouteFunc("GET "+RouteAPIChecklistDetails, api(s.ListChecklistDetailsHandler()))
	s.RegisterRouteFunc("GET "+RouteAPIChecklistDetail, api(s.GetChecklistDetailHandler()))
	s.RegisterRouteFunc("PATCH "+RouteAPIChecklistDetail, api(s.PatchChecklistDetailHandler()))
	s.RegisterRouteFunc("DELETE "+RouteAPIChecklistDetail, api(s.DeleteChecklistDetailHandler(), editor))
	s.RegisterRouteFunc("POST "+RouteAPIChecklistDetailMail, api(s.SendChecklistDetailMailHandler()))

	// SOPs
	s.RegisterRouteFunc("GET "+RouteAPISOPs, api(s.ListSOPsHandler()))
	s.RegisterRouteFunc("POST "+RouteAPISOPs, api(s.CreateSOPHandler()))
	s.RegisterRouteFunc("PATCH "+RouteAPISOP, api(s.RenameSOPHandler()))
	s.RegisterRouteFunc("DELETE "+RouteAPISOP, api(s.DeleteSOPHandler()))
	s.RegisterRouteFunc("GET "+RouteAPISOPDocuments, api(s.ListSOPDocumentsHandler()))
	s.RegisterRouteFunc("GET "+RouteAPISOPPermissions, api(s.SOPPermissionsHandler()))
	s.RegisterRouteFunc("PUT "+RouteAPISOPDocument, api(s.UpdateSOPDocumentHandler()))
	s.RegisterRouteFunc("DELETE "+RouteAPISOPDocument, api(s.DeleteSOPDocumentHandler()))

	// Improvements
	s.RegisterRouteFunc("GET "+RouteAPIImprovements, api(s.ListImprovementsHandler()))
	s.RegisterRouteFunc("POST "+RouteAPIImprovements, api(s.CreateImprovementHandler()))
	s.RegisterRouteFunc("GET "+RouteAPIImprovement, api(s.GetImprovementHandler()))
	s.RegisterRouteFunc("PATCH "+RouteAPIImprovement, api(s.PatchImprovementHandler()))
	s.RegisterRouteFunc("DELETE "+RouteAPIImprovement, api(s.DeleteImprovementHandler(), editor))
	s.RegisterRouteFunc("GET "+RouteAPIImprovementProgress, api(s.ListProgressHandler()))
	s.RegisterRouteFunc("POST "+RouteAPIImprovementProgress, api(s.AddProgressHandler()))
	s.RegisterRouteFunc("PATCH "+RouteAPIProgressItem, api(s.PatchProgressHandler()))
	s.RegisterRouteFunc("DELETE "+RouteAPIProgressItem, api(s.DeleteProgressHandler()))
	s.RegisterRouteFunc("GET "+RouteAPIImprovementEvents, api(s.ListImprovementEventsHandler()))

	// Settings
	s.RegisterRouteFunc("GET "+RouteAPIUploadLimit, api(s.UploadLimitHandler()))
	s.RegisterRouteFunc("GET "+RouteAPISizeCheck, api(s.CheckFileSizeHandler()))
	s.RegisterRouteFunc("GET "+RouteAPILimits, api(s.ListLimitsHandler(), admin))
	s.RegisterRouteFunc("POST "+RouteAPILimits, api(s.CreateLimitHandler(), admin))
	s.RegisterRouteFunc("GET "+RouteAPILimit, api(s.GetLimitHandler(), admin))
	s.RegisterRouteFunc("PUT "+RouteAPILimit, api(s.UpdateLimitHandler(), admin))
	s.RegisterRouteFunc("DELETE "+RouteAPILimit, api(s.DeleteLimitHandler(), admin))
	s.RegisterRouteFunc("POST "+RouteAPILimitToggle, api(s.ToggleLimitHandler(), admin))
	s.RegisterRouteFunc("GET "+RouteAPIRecipients, api(s.ListRecipientsHandler(), admin))
	s.RegisterRouteFunc("POST "+RouteAPIRecipients, api(s.CreateRecipientHandler(), admin))
	s.RegisterRouteFunc("PUT "+RouteAPIRecipients, api(s.ReplaceRecipientsHandler(), admin))
	s.RegisterRouteFunc("PUT "+RouteAPIRecipient, api(s.UpdateRecipientHandler(), admin))
	s.RegisterRouteFunc("DELETE "+RouteAPIRecipient, api(s.DeleteRecipientHandler(), admin))

	// Files
	s.RegisterRouteFunc("POST "+RouteAPIFiles, api(s.UploadFileHandler()))

	// CORS preflight for every API route
	s.RegisterRouteFunc("OPTIONS "+RouteAPIPrefix, ChainMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, s.CorsMiddleware))

	// Operations
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthHandler())

	s.RegisterRouteFunc("GET "+RouteStaticCSS, ChainMiddleware(s.AssetHandler("css"), s.StaticMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteStaticJS, ChainMiddleware(s.AssetHandler("js"), s.StaticMiddleware()...))
}
