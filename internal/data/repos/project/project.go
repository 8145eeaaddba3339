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

type ProjectRepo interface {
	Create(dbc dbctx.Context, p *types.Project) (*types.Project, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Project, error)
	// SetBaseLanguage writes p.BaseLanguageID if p.Version is still current.
	SetBaseLanguage(dbc dbctx.Context, p *types.Project, languageID int64) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{
		db:  db,
		log: baseLog.With("repo", "ProjectRepo"),
	}
}

func (r *projectRepo) Create(dbc dbctx.Context, p *types.Project) (*types.Project, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return nil, errs.Validation("project.create", "name_required")
	}
	if err := transaction.WithContext(dbc.Ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *projectRepo) GetByID(dbc dbctx.Context, id int64) (*types.Project, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Project
	if err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *projectRepo) SetBaseLanguage(dbc dbctx.Context, p *types.Project, languageID int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if p == nil || p.ID == 0 {
		return errs.Validation("project.set_base_language", "project_required")
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Project{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]interface{}{
			"base_language_id": languageID,
			"version":          gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &txn.OptimisticLockError{Entity: "Project", ID: p.ID}
	}
	p.BaseLanguageID = &languageID
	p.Version++
	return nil
}
