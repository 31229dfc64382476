package handlers

import (
	"estatehub/internal/filestore"
	"estatehub/internal/repos"
	"estatehub/internal/services"
)

type Deps struct {
	PropertyHandler *PropertyHandler
	UploadHandler   *UploadHandler
	HealthHandler   *HealthHandler
}

func NewDeps(repo repos.PropertyRepo, files filestore.Store) *Deps {
	propSvc := services.NewPropertyService(repo, files)

	return &Deps{
		PropertyHandler: &PropertyHandler{Props: propSvc},
		UploadHandler:   &UploadHandler{Files: files},
		HealthHandler:   &HealthHandler{Repo: repo},
	}
}
