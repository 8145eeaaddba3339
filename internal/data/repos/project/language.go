package project

import (
	"strings"

	"gorm.io/gorm"

	"github.com/tolgee/tolgee-backend/internal/data/txn"
	types "github.com/tolgee/tolgee-backend/internal/domain"
	"github.com/tolgee/tolgee-backend/internal/domain/errs"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

type LanguageRepo interface {
	Create(dbc dbctx.Context, l *types.Language) (*types.Language, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Language, error)
	GetByProjectAndTag(dbc dbctx.Context, projectID int64, tag string) (*types.Language, error)
	ListByProject(dbc dbctx.Context, projectID int64) ([]*types.Language, error)
	// FirstByProject returns the project's language with the lowest id.
	FirstByProject(dbc dbctx.Context, projectID int64) (*types.Language, error)
	// Update and Delete fail with an optimistic lock conflict when
	// l.Version is stale.
	Update(dbc dbctx.Context, l *types.Language) error
	Delete(dbc dbctx.Context, l *types.Language) error
}

type languageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLanguageRepo(db *gorm.DB, baseLog *logger.Logger) LanguageRepo {
	return &languageRepo{
		db:  db,
		log: baseLog.With("repo", "LanguageRepo"),
	}
}

func (r *languageRepo) Create(dbc dbctx.Context, l *types.Language) (*types.Language, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if l == nil || l.ProjectID == 0 || strings.TrimSpace(l.Tag) == "" {
		return nil, errs.Validation("language.create", "project_and_tag_required")
	}
	if err := transaction.WithContext(dbc.Ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

func (r *languageRepo) GetByID(dbc dbctx.Context, id int64) (*types.Language, error) {
	return r.first(dbc, "id = ?", id)
}

func (r *languageRepo) GetByProjectAndTag(dbc dbctx.Context, projectID int64, tag string) (*types.Language, error) {
	return r.first(dbc, "project_id = ? AND tag = ?", projectID, strings.TrimSpace(tag))
}

func (r *languageRepo) FirstByProject(dbc dbctx.Context, projectID int64) (*types.Language, error) {
	return r.first(dbc, "project_id = ?", projectID)
}

func (r *languageRepo) first(dbc dbctx.Context, where string, args ...interface{}) (*types.Language, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Language
	if err := transaction.WithContext(dbc.Ctx).
		Where(where, args...).
		Order("id ASC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *languageRepo) ListByProject(dbc dbctx.Context, projectID int64) ([]*types.Language, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Language{}
	if err := transaction.WithContext(dbc.Ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *languageRepo) Update(dbc dbctx.Context, l *types.Language) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if l == nil || l.ID == 0 {
		return errs.Validation("language.update", "language_required")
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Language{}).
		Where("id = ? AND version = ?", l.ID, l.Version).
		Updates(map[string]interface{}{
			"tag":           l.Tag,
			"name":          l.Name,
			"original_name": l.OriginalName,
			"flag_emoji":    l.FlagEmoji,
			"version":       gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &txn.OptimisticLockError{Entity: "Language", ID: l.ID}
	}
	l.Version++
	return nil
}

func (r *languageRepo) Delete(dbc dbctx.Context, l *types.Language) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if l == nil || l.ID == 0 {
		return errs.Validation("language.delete", "language_required")
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND version = ?", l.ID, l.Version).
		Delete(&types.Language{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &txn.OptimisticLockError{Entity: "Language", ID: l.ID}
	}
	return nil
}
