package domain

import (
	"github.com/tolgee/tolgee-backend/internal/domain/activity"
	"github.com/tolgee/tolgee-backend/internal/domain/project"
)

type ActivityType = activity.ActivityType
type ActivityRevision = activity.Revision
type ActivityDescribingEntity = activity.DescribingEntity
type ActivityModifiedEntity = activity.ModifiedEntity
type BatchJobChunkExecution = activity.BatchJobChunkExecution
type ActivityEntityTypeCount = activity.EntityTypeCount
type ActivityDailyCount = activity.DailyCount

type Project = project.Project
type Language = project.Language

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&Project{},
		&Language{},
		&BatchJobChunkExecution{},
		&ActivityRevision{},
		&ActivityDescribingEntity{},
		&ActivityModifiedEntity{},
	}
}
