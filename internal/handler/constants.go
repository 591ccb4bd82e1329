// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixUpload is the suffix for upload routes.
	RouteSuffixUpload = "/upload"
	// RouteSuffixDelete is the suffix for POST-based delete routes.
	RouteSuffixDelete = "/delete"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamMediaID is the media ID parameter pattern.
	RouteParamMediaID = "/{mediaID}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RoutePublicPage is the public page route.
	RoutePublicPage = "/page/{slug}"
	// RouteFavicon is the favicon route.
	RouteFavicon = "/favicon.ico"
	// RouteHealth is the health check route.
	RouteHealth = "/health"

	// RoutePages is the pages admin route.
	RoutePages = "/pages"
	// RouteMedia is the media admin route.
	RouteMedia = "/media"
	// RouteTheme is the theme admin route.
	RouteTheme = "/theme"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"

	// RoutePagesID is the pages ID route pattern.
	RoutePagesID = RoutePages + RouteParamID
	// RouteMediaID is the media ID route pattern.
	RouteMediaID = RouteMedia + RouteParamID
	// RouteUsersID is the users ID route pattern.
	RouteUsersID = RouteUsers + RouteParamID

	// RouteThemeLogo and friends select or clear the theme assets.
	RouteThemeLogo         = RouteTheme + "/logo" + RouteParamMediaID
	RouteThemeFavicon      = RouteTheme + "/favicon" + RouteParamMediaID
	RouteThemeLogoClear    = RouteTheme + "/logo/clear"
	RouteThemeFaviconClear = RouteTheme + "/favicon/clear"
)

// Redirect targets.
const (
	redirectHome       = "/"
	redirectLogin      = "/login"
	redirectAdmin      = "/admin"
	redirectAdminPages = "/admin/pages"
	redirectAdminMedia = "/admin/media"
	redirectAdminTheme = "/admin/theme"
	redirectAdminUsers = "/admin/users"
)

// Template names.
const (
	tmplLogin       = "auth/login"
	tmplDashboard   = "admin/dashboard"
	tmplPagesList   = "admin/pages_list"
	tmplPagesForm   = "admin/pages_form"
	tmplMediaList   = "admin/media_list"
	tmplMediaUpload = "admin/media_upload"
	tmplTheme       = "admin/theme"
	tmplUsersList   = "admin/users_list"
	tmplUsersForm   = "admin/users_form"
	tmplIndex       = "public/index"
	tmplPage        = "public/page"
	tmplNotFound    = "public/not_found"
)

// Flash messages.
const (
	msgUnexpectedError = "An unexpected error occurred"
	msgLoggedOut       = "You have been logged out."
	msgPageCreated     = "Page created successfully"
	msgPageUpdated     = "Page updated successfully"
	msgPageDeleted     = "Page deleted successfully"
	msgPageNotFound    = "Page not found"
	msgMediaUploaded   = "File uploaded successfully"
	msgMediaDeleted    = "File deleted successfully"
	msgMediaNotFound   = "File not found"
	msgThemeUpdated    = "Theme updated successfully"
	msgUserCreated     = "User created successfully"
	msgUserDeleted     = "User deleted successfully"
	msgUserNotFound    = "User not found"
	msgSelfDeletion    = "You cannot delete your own account"
)
