package services

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/tolgee/tolgee-backend/internal/data/repos"
	"github.com/tolgee/tolgee-backend/internal/data/txn"
	types "github.com/tolgee/tolgee-backend/internal/domain"
	"github.com/tolgee/tolgee-backend/internal/domain/activity"
	"github.com/tolgee/tolgee-backend/internal/domain/errs"
	"github.com/tolgee/tolgee-backend/internal/platform/ctxutil"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

// ActivityEntry is one change-set to record.
type ActivityEntry struct {
	ProjectID  int64
	Type       types.ActivityType
	Modified   []ModifiedEntry
	Describing []DescribingEntry
	Meta       map[string]any
}

type ModifiedEntry struct {
	EntityClass    string
	EntityID       int64
	RevisionType   activity.EntityRevisionType
	Modifications  map[string]activity.PropertyModification
	DescribingData map[string]any
}

type DescribingEntry struct {
	EntityClass string
	EntityID    int64
	Data        map[string]any
}

// ActivityRecorder appends revisions inside the caller's transaction, so a
// rolled back attempt leaves no revision behind.
type ActivityRecorder interface {
	Record(dbc dbctx.Context, entry ActivityEntry) (*types.ActivityRevision, error)
}

type activityRecorder struct {
	log       *logger.Logger
	revisions repos.RevisionRepo
	catalog   *activity.Catalog
	now       func() time.Time
}

func NewActivityRecorder(log *logger.Logger, revisions repos.RevisionRepo, catalog *activity.Catalog) ActivityRecorder {
	if catalog == nil {
		catalog = activity.DefaultCatalog()
	}
	return &activityRecorder{
		log:       log.With("service", "ActivityRecorder"),
		revisions: revisions,
		catalog:   catalog,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *activityRecorder) Record(dbc dbctx.Context, entry ActivityEntry) (*types.ActivityRevision, error) {
	const op = "activity.record"
	if !dbc.InTx() {
		return nil, txn.ErrNoTransaction
	}
	if !r.catalog.Valid(entry.Type) {
		return nil, errs.Validation(op, "unknown_activity_type")
	}

	projectID := entry.ProjectID
	rev := &types.ActivityRevision{
		ProjectID: &projectID,
		Type:      entry.Type.Ptr(),
		Timestamp: r.now(),
	}
	if authorID, ok := ctxutil.AuthorID(dbc.Ctx); ok {
		rev.AuthorID = &authorID
	}
	meta, err := jsonOrNil(entry.Meta)
	if err != nil {
		return nil, errs.Wrap(errs.CodeValidation, op, err)
	}
	rev.Meta = meta

	for _, m := range entry.Modified {
		mods, err := jsonOrNil(m.Modifications)
		if err != nil {
			return nil, errs.Wrap(errs.CodeValidation, op, err)
		}
		desc, err := jsonOrNil(m.DescribingData)
		if err != nil {
			return nil, errs.Wrap(errs.CodeValidation, op, err)
		}
		rev.ModifiedEntities = append(rev.ModifiedEntities, types.ActivityModifiedEntity{
			EntityClass:    m.EntityClass,
			EntityID:       m.EntityID,
			RevisionType:   m.RevisionType,
			Modifications:  mods,
			DescribingData: desc,
		})
	}
	for _, d := range entry.Describing {
		data, err := jsonOrNil(d.Data)
		if err != nil {
			return nil, errs.Wrap(errs.CodeValidation, op, err)
		}
		rev.DescribingRelations = append(rev.DescribingRelations, types.ActivityDescribingEntity{
			EntityClass: d.EntityClass,
			EntityID:    d.EntityID,
			Data:        data,
		})
	}

	created, err := r.revisions.Create(dbc, rev)
	if err != nil {
		return nil, fmt.Errorf("record %s revision: %w", entry.Type, err)
	}
	r.log.Debug("activity recorded", "revision_id", created.ID, "type", string(entry.Type), "project_id", projectID)
	return created, nil
}

func jsonOrNil[T any](v map[string]T) (datatypes.JSON, error) {
	if len(v) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
