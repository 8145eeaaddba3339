package repos

import (
	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/data/repos/activity"
	"github.com/tolgee/tolgee-backend/internal/data/repos/project"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

type RevisionRepo = activity.RevisionRepo

type ProjectRepo = project.ProjectRepo
type LanguageRepo = project.LanguageRepo

func NewRevisionRepo(db *gorm.DB, baseLog *logger.Logger) RevisionRepo {
	return activity.NewRevisionRepo(db, baseLog)
}
func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return project.NewProjectRepo(db, baseLog)
}
func NewLanguageRepo(db *gorm.DB, baseLog *logger.Logger) LanguageRepo {
	return project.NewLanguageRepo(db, baseLog)
}

// Set bundles every repository over one database handle.
type Set struct {
	Revisions RevisionRepo
	Projects  ProjectRepo
	Languages LanguageRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Revisions: NewRevisionRepo(db, baseLog),
		Projects:  NewProjectRepo(db, baseLog),
		Languages: NewLanguageRepo(db, baseLog),
	}
}
