package activity

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ActivityType is the kind of change a revision represents.
type ActivityType string

const (
	TypeUnknown             ActivityType = "UNKNOWN"
	TypeSetTranslationState ActivityType = "SET_TRANSLATION_STATE"
	TypeSetTranslations     ActivityType = "SET_TRANSLATIONS"
	TypeCreateKey           ActivityType = "CREATE_KEY"
	TypeKeyDelete           ActivityType = "KEY_DELETE"
	TypeComplexEdit         ActivityType = "COMPLEX_EDIT"
	TypeImport              ActivityType = "IMPORT"
	TypeCreateLanguage      ActivityType = "CREATE_LANGUAGE"
	TypeEditLanguage        ActivityType = "EDIT_LANGUAGE"
	TypeDeleteLanguage      ActivityType = "DELETE_LANGUAGE"
	TypeHardDeleteLanguage  ActivityType = "HARD_DELETE_LANGUAGE"
	TypeCreateProject       ActivityType = "CREATE_PROJECT"
	TypeEditProject         ActivityType = "EDIT_PROJECT"
)

// Ptr returns a pointer to t, for the nullable Revision.Type column.
func (t ActivityType) Ptr() *ActivityType { return &t }

// TypeInfo describes how a type is presented in activity feeds.
type TypeInfo struct {
	Name  ActivityType `yaml:"name"`
	Label string       `yaml:"label"`
	// HideInList removes the type from feeds entirely.
	HideInList bool `yaml:"hide_in_list"`
	// OnlyCountInList types show modified-entity counts instead of full
	// describing relations (imports, batch edits).
	OnlyCountInList bool `yaml:"only_count_in_list"`
}

type catalogFile struct {
	Types []TypeInfo `yaml:"types"`
}

// Catalog is the ordered set of known activity types.
type Catalog struct {
	order  []ActivityType
	byName map[ActivityType]TypeInfo
}

//go:embed activity_types.yaml
var defaultCatalogYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(defaultCatalogYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("activity: embedded catalog: %v", defaultErr))
	}
	return defaultCatalog
}

// ParseCatalog decodes a YAML catalog. Names must be non-empty and unique.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode activity catalog: %w", err)
	}
	c := &Catalog{byName: make(map[ActivityType]TypeInfo, len(f.Types))}
	for i, ti := range f.Types {
		ti.Name = ActivityType(strings.TrimSpace(string(ti.Name)))
		if ti.Name == "" {
			return nil, fmt.Errorf("activity catalog entry %d: missing name", i)
		}
		if _, dup := c.byName[ti.Name]; dup {
			return nil, fmt.Errorf("activity catalog: duplicate type %q", ti.Name)
		}
		c.byName[ti.Name] = ti
		c.order = append(c.order, ti.Name)
	}
	return c, nil
}

func (c *Catalog) Lookup(t ActivityType) (TypeInfo, bool) {
	ti, ok := c.byName[t]
	return ti, ok
}

func (c *Catalog) Valid(t ActivityType) bool {
	_, ok := c.byName[t]
	return ok
}

// All returns every known type in catalog order.
func (c *Catalog) All() []ActivityType {
	return append([]ActivityType(nil), c.order...)
}

// RelationTypes are the visible types whose describing relations are
// loaded into feeds.
func (c *Catalog) RelationTypes() []ActivityType {
	return c.filter(func(ti TypeInfo) bool { return !ti.HideInList && !ti.OnlyCountInList })
}

// CountTypes are the visible types summarized by modified-entity counts.
func (c *Catalog) CountTypes() []ActivityType {
	return c.filter(func(ti TypeInfo) bool { return !ti.HideInList && ti.OnlyCountInList })
}

func (c *Catalog) filter(keep func(TypeInfo) bool) []ActivityType {
	out := make([]ActivityType, 0, len(c.order))
	for _, name := range c.order {
		if keep(c.byName[name]) {
			out = append(out, name)
		}
	}
	return out
}
