package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/domain/activity"
	"github.com/tolgee/tolgee-backend/internal/domain/project"
)

var seq atomic.Int64

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *project.Project {
	tb.Helper()
	p := &project.Project{
		Name: name,
		Slug: fmt.Sprintf("%s-%d-%d", name, time.Now().UnixNano(), seq.Add(1)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedLanguage(tb testing.TB, ctx context.Context, tx *gorm.DB, projectID int64, tag string) *project.Language {
	tb.Helper()
	l := &project.Language{ProjectID: projectID, Tag: tag, Name: tag, OriginalName: tag}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed language: %v", err)
	}
	return l
}

func SeedBatchChunk(tb testing.TB, ctx context.Context, tx *gorm.DB) *activity.BatchJobChunkExecution {
	tb.Helper()
	c := &activity.BatchJobChunkExecution{BatchJobID: seq.Add(1), ChunkNumber: 0, Status: "SUCCESS"}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed batch chunk: %v", err)
	}
	return c
}

// RevisionSeed describes a revision to insert. Nil Type leaves the type
// unset.
type RevisionSeed struct {
	ProjectID  int64
	Type       *activity.ActivityType
	At         time.Time
	BatchChunk *int64
	Modified   []string // entity classes, one modified entity each
	Describing []string // entity classes, one describing entity each
}

func SeedRevision(tb testing.TB, ctx context.Context, tx *gorm.DB, s RevisionSeed) *activity.Revision {
	tb.Helper()
	projectID := s.ProjectID
	at := s.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	rev := &activity.Revision{
		ProjectID:                &projectID,
		Type:                     s.Type,
		Timestamp:                at,
		BatchJobChunkExecutionID: s.BatchChunk,
	}
	for _, class := range s.Modified {
		rev.ModifiedEntities = append(rev.ModifiedEntities, activity.ModifiedEntity{
			EntityClass:   class,
			EntityID:      seq.Add(1),
			RevisionType:  activity.EntityModified,
			Modifications: datatypes.JSON([]byte(`{"name":{"old":"a","new":"b"}}`)),
		})
	}
	for _, class := range s.Describing {
		rev.DescribingRelations = append(rev.DescribingRelations, activity.DescribingEntity{
			EntityClass: class,
			EntityID:    seq.Add(1),
			Data:        datatypes.JSON([]byte(`{"name":"x"}`)),
		})
	}
	if err := tx.WithContext(ctx).Create(rev).Error; err != nil {
		tb.Fatalf("seed revision: %v", err)
	}
	return rev
}
