package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/tolgee/tolgee-backend/internal/clients/redis"
	"github.com/tolgee/tolgee-backend/internal/data/repos"
	"github.com/tolgee/tolgee-backend/internal/data/txn"
	types "github.com/tolgee/tolgee-backend/internal/domain"
	"github.com/tolgee/tolgee-backend/internal/domain/activity"
	"github.com/tolgee/tolgee-backend/internal/domain/errs"
	"github.com/tolgee/tolgee-backend/internal/domain/project"
	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
	"github.com/tolgee/tolgee-backend/internal/platform/logger"
)

const (
	maxLanguageTagLen  = 20
	maxLanguageNameLen = 100
)

// ProjectService mutates projects and their languages. Every mutation runs
// in a repeatable transaction and records its activity revision in the same
// transaction.
type ProjectService interface {
	// GetOrCreateBaseLanguage returns the base language, promoting the first
	// language or creating the default one when the project has none.
	GetOrCreateBaseLanguage(ctx context.Context, projectID int64) (*types.Language, error)
	CreateLanguage(ctx context.Context, projectID int64, dto project.LanguageDTO) (*types.Language, error)
	EditLanguage(ctx context.Context, projectID, languageID int64, dto project.LanguageDTO) (*types.Language, error)
	DeleteLanguage(ctx context.Context, projectID, languageID int64) error
}

type projectService struct {
	log       *logger.Logger
	retrier   *txn.Retrier
	projects  repos.ProjectRepo
	languages repos.LanguageRepo
	recorder  ActivityRecorder
	daily     redis.DailyActivityCache
}

func NewProjectService(
	log *logger.Logger,
	retrier *txn.Retrier,
	projects repos.ProjectRepo,
	languages repos.LanguageRepo,
	recorder ActivityRecorder,
	daily redis.DailyActivityCache,
) ProjectService {
	if daily == nil {
		daily = redis.NoopDailyActivityCache()
	}
	return &projectService{
		log:       log.With("service", "ProjectService"),
		retrier:   retrier,
		projects:  projects,
		languages: languages,
		recorder:  recorder,
		daily:     daily,
	}
}

type baseLanguageResult struct {
	language *types.Language
	changed  bool
}

func (s *projectService) GetOrCreateBaseLanguage(ctx context.Context, projectID int64) (*types.Language, error) {
	const op = "project.get_or_create_base_language"
	res, err := txn.ExecuteInNewRepeatableTransaction(dbctx.Background(ctx), s.retrier, func(dbc dbctx.Context) (baseLanguageResult, error) {
		p, err := s.mustProject(dbc, op, projectID)
		if err != nil {
			return baseLanguageResult{}, err
		}
		if p.BaseLanguageID != nil {
			current, err := s.languages.GetByID(dbc, *p.BaseLanguageID)
			if err != nil {
				return baseLanguageResult{}, err
			}
			if current != nil && current.ProjectID == p.ID {
				return baseLanguageResult{language: current}, nil
			}
		}

		lang, err := s.languages.FirstByProject(dbc, p.ID)
		if err != nil {
			return baseLanguageResult{}, err
		}
		activityType := activity.TypeEditProject
		if lang == nil {
			def := project.DefaultBaseLanguage
			lang, err = s.languages.Create(dbc, &types.Language{
				ProjectID:    p.ID,
				Tag:          def.Tag,
				Name:         def.Name,
				OriginalName: def.OriginalName,
				FlagEmoji:    def.FlagEmoji,
			})
			if err != nil {
				return baseLanguageResult{}, err
			}
			activityType = activity.TypeCreateLanguage
		}

		previous := p.BaseLanguageID
		if err := s.projects.SetBaseLanguage(dbc, p, lang.ID); err != nil {
			return baseLanguageResult{}, err
		}

		entry := ActivityEntry{
			ProjectID: p.ID,
			Type:      activityType,
			Modified: []ModifiedEntry{{
				EntityClass:  "Project",
				EntityID:     p.ID,
				RevisionType: activity.EntityModified,
				Modifications: map[string]activity.PropertyModification{
					"baseLanguage": {Old: previous, New: lang.ID},
				},
			}},
			Describing: []DescribingEntry{languageDescribing(lang)},
		}
		if activityType == activity.TypeCreateLanguage {
			entry.Modified = append(entry.Modified, languageAdded(lang))
		}
		if _, err := s.recorder.Record(dbc, entry); err != nil {
			return baseLanguageResult{}, err
		}
		return baseLanguageResult{language: lang, changed: true}, nil
	})
	if err != nil {
		return nil, MapError(op, err)
	}
	if res.changed {
		s.invalidateDaily(ctx, projectID)
	}
	return res.language, nil
}

func (s *projectService) CreateLanguage(ctx context.Context, projectID int64, dto project.LanguageDTO) (*types.Language, error) {
	const op = "project.create_language"
	dto = normalizeLanguageDTO(dto)
	if err := validateLanguageDTO(op, dto); err != nil {
		return nil, err
	}
	lang, err := txn.ExecuteInNewRepeatableTransaction(dbctx.Background(ctx), s.retrier, func(dbc dbctx.Context) (*types.Language, error) {
		p, err := s.mustProject(dbc, op, projectID)
		if err != nil {
			return nil, err
		}
		existing, err := s.languages.GetByProjectAndTag(dbc, p.ID, dto.Tag)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, errs.Conflict(op, "language_tag_exists")
		}
		lang, err := s.languages.Create(dbc, &types.Language{
			ProjectID:    p.ID,
			Tag:          dto.Tag,
			Name:         dto.Name,
			OriginalName: dto.OriginalName,
			FlagEmoji:    dto.FlagEmoji,
		})
		if err != nil {
			return nil, err
		}
		if _, err := s.recorder.Record(dbc, ActivityEntry{
			ProjectID:  p.ID,
			Type:       activity.TypeCreateLanguage,
			Modified:   []ModifiedEntry{languageAdded(lang)},
			Describing: []DescribingEntry{projectDescribing(p)},
		}); err != nil {
			return nil, err
		}
		return lang, nil
	})
	if err != nil {
		return nil, MapError(op, err)
	}
	s.invalidateDaily(ctx, projectID)
	return lang, nil
}

func (s *projectService) EditLanguage(ctx context.Context, projectID, languageID int64, dto project.LanguageDTO) (*types.Language, error) {
	const op = "project.edit_language"
	dto = normalizeLanguageDTO(dto)
	if err := validateLanguageDTO(op, dto); err != nil {
		return nil, err
	}
	lang, err := txn.ExecuteInNewRepeatableTransaction(dbctx.Background(ctx), s.retrier, func(dbc dbctx.Context) (*types.Language, error) {
		lang, err := s.mustLanguage(dbc, op, projectID, languageID)
		if err != nil {
			return nil, err
		}
		if dto.Tag != lang.Tag {
			clash, err := s.languages.GetByProjectAndTag(dbc, projectID, dto.Tag)
			if err != nil {
				return nil, err
			}
			if clash != nil {
				return nil, errs.Conflict(op, "language_tag_exists")
			}
		}
		mods := languageChanges(lang, dto)
		lang.Tag, lang.Name, lang.OriginalName, lang.FlagEmoji = dto.Tag, dto.Name, dto.OriginalName, dto.FlagEmoji
		if len(mods) == 0 {
			return lang, nil
		}
		if err := s.languages.Update(dbc, lang); err != nil {
			return nil, err
		}
		if _, err := s.recorder.Record(dbc, ActivityEntry{
			ProjectID: projectID,
			Type:      activity.TypeEditLanguage,
			Modified: []ModifiedEntry{{
				EntityClass:   "Language",
				EntityID:      lang.ID,
				RevisionType:  activity.EntityModified,
				Modifications: mods,
			}},
		}); err != nil {
			return nil, err
		}
		return lang, nil
	})
	if err != nil {
		return nil, MapError(op, err)
	}
	s.invalidateDaily(ctx, projectID)
	return lang, nil
}

func (s *projectService) DeleteLanguage(ctx context.Context, projectID, languageID int64) error {
	const op = "project.delete_language"
	base, err := s.GetOrCreateBaseLanguage(ctx, projectID)
	if err != nil {
		return err
	}
	if base.ID == languageID {
		return errs.Validation(op, "cannot_delete_base_language")
	}
	_, err = txn.ExecuteInNewRepeatableTransaction(dbctx.Background(ctx), s.retrier, func(dbc dbctx.Context) (struct{}, error) {
		lang, err := s.mustLanguage(dbc, op, projectID, languageID)
		if err != nil {
			return struct{}{}, err
		}
		// Re-read inside the attempt: the base may have moved since the check.
		p, err := s.mustProject(dbc, op, projectID)
		if err != nil {
			return struct{}{}, err
		}
		if p.BaseLanguageID != nil && *p.BaseLanguageID == lang.ID {
			return struct{}{}, errs.Validation(op, "cannot_delete_base_language")
		}
		if err := s.languages.Delete(dbc, lang); err != nil {
			return struct{}{}, err
		}
		if _, err := s.recorder.Record(dbc, ActivityEntry{
			ProjectID: projectID,
			Type:      activity.TypeDeleteLanguage,
			Modified: []ModifiedEntry{{
				EntityClass:    "Language",
				EntityID:       lang.ID,
				RevisionType:   activity.EntityDeleted,
				DescribingData: map[string]any{"tag": lang.Tag, "name": lang.Name},
			}},
			Describing: []DescribingEntry{projectDescribing(p)},
		}); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return MapError(op, err)
	}
	s.invalidateDaily(ctx, projectID)
	return nil
}

func (s *projectService) mustProject(dbc dbctx.Context, op string, projectID int64) (*types.Project, error) {
	p, err := s.projects.GetByID(dbc, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errs.NotFound(op, "project_not_found")
	}
	return p, nil
}

func (s *projectService) mustLanguage(dbc dbctx.Context, op string, projectID, languageID int64) (*types.Language, error) {
	lang, err := s.languages.GetByID(dbc, languageID)
	if err != nil {
		return nil, err
	}
	if lang == nil || lang.ProjectID != projectID {
		return nil, errs.NotFound(op, "language_not_found")
	}
	return lang, nil
}

// invalidateDaily runs after commit. A failed invalidation leaves a stale
// entry until its TTL expires.
func (s *projectService) invalidateDaily(ctx context.Context, projectID int64) {
	if err := s.daily.Invalidate(ctx, projectID); err != nil {
		s.log.Warn("daily activity cache invalidation failed", "project_id", projectID, "error", err)
	}
}

func normalizeLanguageDTO(dto project.LanguageDTO) project.LanguageDTO {
	dto.Tag = strings.TrimSpace(dto.Tag)
	dto.Name = strings.TrimSpace(dto.Name)
	dto.OriginalName = strings.TrimSpace(dto.OriginalName)
	dto.FlagEmoji = strings.TrimSpace(dto.FlagEmoji)
	return dto
}

func validateLanguageDTO(op string, dto project.LanguageDTO) error {
	switch {
	case dto.Tag == "":
		return errs.Validation(op, "language_tag_required")
	case utf8.RuneCountInString(dto.Tag) > maxLanguageTagLen:
		return errs.Validation(op, "language_tag_too_long")
	case strings.ContainsAny(dto.Tag, ", "):
		return errs.Validation(op, "language_tag_invalid")
	case dto.Name == "":
		return errs.Validation(op, "language_name_required")
	case utf8.RuneCountInString(dto.Name) > maxLanguageNameLen:
		return errs.Validation(op, "language_name_too_long")
	}
	return nil
}

func languageChanges(l *types.Language, dto project.LanguageDTO) map[string]activity.PropertyModification {
	mods := map[string]activity.PropertyModification{}
	if l.Tag != dto.Tag {
		mods["tag"] = activity.PropertyModification{Old: l.Tag, New: dto.Tag}
	}
	if l.Name != dto.Name {
		mods["name"] = activity.PropertyModification{Old: l.Name, New: dto.Name}
	}
	if l.OriginalName != dto.OriginalName {
		mods["originalName"] = activity.PropertyModification{Old: l.OriginalName, New: dto.OriginalName}
	}
	if l.FlagEmoji != dto.FlagEmoji {
		mods["flagEmoji"] = activity.PropertyModification{Old: l.FlagEmoji, New: dto.FlagEmoji}
	}
	return mods
}

func languageAdded(l *types.Language) ModifiedEntry {
	return ModifiedEntry{
		EntityClass:  "Language",
		EntityID:     l.ID,
		RevisionType: activity.EntityAdded,
		Modifications: map[string]activity.PropertyModification{
			"tag":  {New: l.Tag},
			"name": {New: l.Name},
		},
	}
}

func languageDescribing(l *types.Language) DescribingEntry {
	return DescribingEntry{
		EntityClass: "Language",
		EntityID:    l.ID,
		Data:        map[string]any{"tag": l.Tag, "name": l.Name},
	}
}

func projectDescribing(p *types.Project) DescribingEntry {
	return DescribingEntry{
		EntityClass: "Project",
		EntityID:    p.ID,
		Data:        map[string]any{"name": p.Name},
	}
}
