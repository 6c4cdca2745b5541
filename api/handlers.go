package api

import (
	"github.com/vihaanharrison/portfolio-backend/database"
	"github.com/vihaanharrison/portfolio-backend/importer"
	"github.com/vihaanharrison/portfolio-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, auth *services.AuthService, extractor services.Extractor, uploader services.Uploader, sessions *importer.Store) *routeHandlers {
	saver := newRepoSaver(database.ProjectRepo(), database.ProjectTagRepo())

	return &routeHandlers{
		authHandler:     newAuthHandler(auth),
		roleHandler:     newRoleHandler(auth),
		projectHandler:  newProjectHandler(database.ProjectRepo(), database.ProjectTagRepo()),
		activityHandler: newActivityHandler(database.ActivityRepo()),
		contentHandler:  newContentHandler(extractor),
		uploadHandler:   newUploadHandler(uploader),
		importHandler:   newImportHandler(sessions, extractor, uploader, saver),
	}
}
