package server

// Route path constants
const (
	// Auth Routes
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Console pages
	RouteDashboard    = "/"
	RouteChecklists   = "/console/checklists"
	RouteSOPs         = "/console/sops"
	RouteSOP          = "/console/sops/{id}"
	RouteImprovements = "/console/improvements"
	RouteSettings     = "/console/settings"
	RouteProfile      = "/console/profile"

	// Browser activity heartbeat
	RouteActivity = "/console/activity"

	// Console JSON API
	RouteAPIPrefix              = "/console/api/"
	RouteAPIMe                  = "/console/api/me"
	RouteAPIProfile             = "/console/api/profile"
	RouteAPIPassword            = "/console/api/password"
	RouteAPIUsers               = "/console/api/users"
	RouteAPIGroups              = "/console/api/groups"
	RouteAPIChecklists          = "/console/api/checklists"
	RouteAPIChecklist           = "/console/api/checklists/{id}"
	RouteAPIChecklistDetails    = "/console/api/checklists/{id}/details"
	RouteAPIChecklistDetail     = "/console/api/checklist-details/{id}"
	RouteAPIChecklistDetailMail = "/console/api/checklist-details/{id}/send-mail"
	RouteAPISOPs                = "/console/api/sops"
	RouteAPISOP                 = "/console/api/sops/{id}"
	RouteAPISOPDocuments        = "/console/api/sops/{id}/documents"
	RouteAPISOPPermissions      = "/console/api/sops/{id}/permissions"
	RouteAPISOPDocument         = "/console/api/sop-documents/{id}"
	RouteAPIImprovements        = "/console/api/improvements"
	RouteAPIImprovement         = "/console/api/improvements/{id}"
	RouteAPIImprovementProgress = "/console/api/improvements/{id}/progress"
	RouteAPIProgressItem        = "/console/api/improvements/{id}/progress/{progressId}"
	RouteAPIImprovementEvents   = "/console/api/improvement-events"
	RouteAPIUploadLimit         = "/console/api/settings/upload-limit"
	RouteAPISizeCheck           = "/console/api/settings/size-check"
	RouteAPILimits              = "/console/api/settings/limits"
	RouteAPILimit               = "/console/api/settings/limits/{id}"
	RouteAPILimitToggle         = "/console/api/settings/limits/{id}/toggle"
	RouteAPIRecipients          = "/console/api/settings/recipients"
	RouteAPIRecipient           = "/console/api/settings/recipients/{id}"
	RouteAPIFiles               = "/console/api/files"

	// Operations
	RouteMetrics = "/metrics"
	RouteHealthz = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
