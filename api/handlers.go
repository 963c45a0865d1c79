package api

import (
	"github.com/rpupo63/portfolio-backend/auth"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies) *routeHandlers {
	validate := newValidator()
	db := deps.Database

	sessionTTL := deps.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = auth.SessionTTL
	}

	return &routeHandlers{
		authHandler:        newAuthHandler(deps.Auth, sessionTTL, deps.Config.IsProduction()),
		projectHandler:     newContentHandler(db.ProjectRepo(), validate, "Project", "projects"),
		certificateHandler: newContentHandler(db.CertificateRepo(), validate, "Certificate", "certificates"),
		skillHandler:       newContentHandler(db.SkillRepo(), validate, "Skill category", "skills"),
		contactHandler:     newContactHandler(db.ContactRepo(), validate, deps.Notifier),
		statsHandler:       newStatsHandler(db),
		healthHandler:      newHealthHandler(db, deps.StartupTime),
		uploadHandler:      newUploadHandler(deps.Images),
	}
}
