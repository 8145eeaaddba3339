package activity

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/data/paging"
	types "github.com/tolgee/tolgee-backend/internal/domain"
	"github.com/tolgee/tolgee-backend/internal/domain/errs"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

// RevisionRepo stores activity revisions. Create is the only write; every
// read returns empty results rather than an error when nothing matches.
type RevisionRepo interface {
	Create(dbc dbctx.Context, rev *types.ActivityRevision) (*types.ActivityRevision, error)
	GetByID(dbc dbctx.Context, id int64) (*types.ActivityRevision, error)
	GetForProject(dbc dbctx.Context, projectID int64, pageable paging.Pageable) (paging.Page[*types.ActivityRevision], error)
	GetRelationsForRevisions(dbc dbctx.Context, revisionIDs []int64, allowedTypes []types.ActivityType) ([]*types.ActivityDescribingEntity, error)
	GetModifiedEntityTypeCounts(dbc dbctx.Context, revisionIDs []int64, allowedTypes []types.ActivityType) ([]types.ActivityEntityTypeCount, error)
	GetProjectDailyActivity(dbc dbctx.Context, projectID int64) ([]types.ActivityDailyCount, error)
}

type revisionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRevisionRepo(db *gorm.DB, baseLog *logger.Logger) RevisionRepo {
	return &revisionRepo{
		db:  db,
		log: baseLog.With("repo", "RevisionRepo"),
	}
}

// Sortable feed properties and their columns.
var feedSortColumns = map[string]string{
	"id":        "id",
	"timestamp": "timestamp",
	"type":      "type",
}

var defaultFeedSort = []paging.Order{{Property: "timestamp", Desc: true}}

func (r *revisionRepo) Create(dbc dbctx.Context, rev *types.ActivityRevision) (*types.ActivityRevision, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if rev == nil {
		return nil, errs.Validation("activity.revision.create", "revision_required")
	}
	if rev.Timestamp.IsZero() {
		rev.Timestamp = time.Now().UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(rev).Error; err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *revisionRepo) GetByID(dbc dbctx.Context, id int64) (*types.ActivityRevision, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rev types.ActivityRevision
	err := transaction.WithContext(dbc.Ctx).
		Preload("DescribingRelations").
		Preload("ModifiedEntities").
		Where("id = ?", id).
		Limit(1).
		Find(&rev).Error
	if err != nil {
		return nil, err
	}
	if rev.ID == 0 {
		return nil, nil
	}
	return &rev, nil
}

func (r *revisionRepo) GetForProject(dbc dbctx.Context, projectID int64, pageable paging.Pageable) (paging.Page[*types.ActivityRevision], error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	pageable = pageable.Normalize()
	if len(pageable.Sort) == 0 {
		pageable.Sort = defaultFeedSort
	}
	feed := func() *gorm.DB {
		return transaction.WithContext(dbc.Ctx).
			Model(&types.ActivityRevision{}).
			Where("project_id = ? AND type IS NOT NULL AND batch_job_chunk_execution_id IS NULL", projectID)
	}

	var total int64
	if err := feed().Count(&total).Error; err != nil {
		return paging.Page[*types.ActivityRevision]{}, err
	}

	q, err := paging.Apply(feed(), pageable, feedSortColumns, paging.Order{Property: "id", Desc: true})
	if err != nil {
		if errors.Is(err, paging.ErrUnsupportedSort) {
			return paging.Page[*types.ActivityRevision]{}, errs.New(errs.CodeValidation, "activity.revision.get_for_project", "unsupported_sort_property", err)
		}
		return paging.Page[*types.ActivityRevision]{}, err
	}
	var items []*types.ActivityRevision
	if total > 0 {
		if err := q.Find(&items).Error; err != nil {
			return paging.Page[*types.ActivityRevision]{}, err
		}
	}
	return paging.NewPage(items, pageable, total), nil
}

func (r *revisionRepo) GetRelationsForRevisions(dbc dbctx.Context, revisionIDs []int64, allowedTypes []types.ActivityType) ([]*types.ActivityDescribingEntity, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.ActivityDescribingEntity{}
	if len(revisionIDs) == 0 || len(allowedTypes) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Table("activity_describing_entity AS ade").
		Select("ade.*").
		Joins("JOIN activity_revision ar ON ar.id = ade.activity_revision_id").
		Where("ar.id IN ? AND ar.type IN ?", revisionIDs, typeNames(allowedTypes)).
		Order("ade.activity_revision_id, ade.entity_class, ade.entity_id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *revisionRepo) GetModifiedEntityTypeCounts(dbc dbctx.Context, revisionIDs []int64, allowedTypes []types.ActivityType) ([]types.ActivityEntityTypeCount, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []types.ActivityEntityTypeCount{}
	if len(revisionIDs) == 0 || len(allowedTypes) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Table("activity_modified_entity AS me").
		Select("ar.id AS revision_id, me.entity_class AS entity_class, COUNT(*) AS count").
		Joins("JOIN activity_revision ar ON ar.id = me.activity_revision_id").
		Where("ar.id IN ? AND ar.type IN ?", revisionIDs, typeNames(allowedTypes)).
		Group("ar.id, me.entity_class").
		Order("ar.id, me.entity_class").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *revisionRepo) GetProjectDailyActivity(dbc dbctx.Context, projectID int64) ([]types.ActivityDailyCount, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	day := dayExpr(transaction)
	out := []types.ActivityDailyCount{}
	if err := transaction.WithContext(dbc.Ctx).
		Table("activity_revision AS ar").
		Select("COUNT(ar.id) AS count, "+day+" AS date").
		Where("ar.project_id = ?", projectID).
		Group(day).
		Order(day + " ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// dayExpr renders ar.timestamp as YYYY-MM-DD in the store's own time zone.
func dayExpr(db *gorm.DB) string {
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return "to_char(ar.timestamp, 'YYYY-MM-DD')"
	}
	return "strftime('%Y-%m-%d', ar.timestamp)"
}

func typeNames(in []types.ActivityType) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, string(t))
	}
	return out
}
