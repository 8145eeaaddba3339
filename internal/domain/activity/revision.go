package activity

import (
	"time"

	"gorm.io/datatypes"
)

// Revision is one logical change-set. Revisions are append-only: rows are
// inserted once, with their children, and never updated.
//
// A revision appears in project feeds only when Type is set and it is not
// part of a batch-job chunk execution.
type Revision struct {
	ID                       int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID                *int64         `gorm:"column:project_id;index" json:"project_id,omitempty"`
	AuthorID                 *int64         `gorm:"column:author_id;index" json:"author_id,omitempty"`
	Type                     *ActivityType  `gorm:"column:type;size:64;index" json:"type,omitempty"`
	Timestamp                time.Time      `gorm:"column:timestamp;not null;index" json:"timestamp"`
	BatchJobChunkExecutionID *int64         `gorm:"column:batch_job_chunk_execution_id;index" json:"batch_job_chunk_execution_id,omitempty"`
	Meta                     datatypes.JSON `gorm:"column:meta" json:"meta,omitempty"`

	DescribingRelations []DescribingEntity `gorm:"foreignKey:ActivityRevisionID;constraint:OnDelete:CASCADE" json:"describing_relations,omitempty"`
	ModifiedEntities    []ModifiedEntity   `gorm:"foreignKey:ActivityRevisionID;constraint:OnDelete:CASCADE" json:"modified_entities,omitempty"`
}

func (Revision) TableName() string { return "activity_revision" }

// DescribingEntity snapshots an entity that gives context to a change (for
// example the key a translation belongs to) at the time of the revision.
type DescribingEntity struct {
	ActivityRevisionID  int64          `gorm:"column:activity_revision_id;primaryKey;autoIncrement:false" json:"activity_revision_id"`
	EntityClass         string         `gorm:"column:entity_class;primaryKey;size:128" json:"entity_class"`
	EntityID            int64          `gorm:"column:entity_id;primaryKey;autoIncrement:false" json:"entity_id"`
	Data                datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	DescribingRelations datatypes.JSON `gorm:"column:describing_relations" json:"describing_relations,omitempty"`
}

func (DescribingEntity) TableName() string { return "activity_describing_entity" }

// EntityRevisionType says how a modified entity was touched.
type EntityRevisionType string

const (
	EntityAdded    EntityRevisionType = "ADD"
	EntityModified EntityRevisionType = "MOD"
	EntityDeleted  EntityRevisionType = "DEL"
)

// ModifiedEntity records the field-level changes to one entity within a
// revision.
type ModifiedEntity struct {
	ActivityRevisionID  int64              `gorm:"column:activity_revision_id;primaryKey;autoIncrement:false" json:"activity_revision_id"`
	EntityClass         string             `gorm:"column:entity_class;primaryKey;size:128" json:"entity_class"`
	EntityID            int64              `gorm:"column:entity_id;primaryKey;autoIncrement:false" json:"entity_id"`
	RevisionType        EntityRevisionType `gorm:"column:revision_type;size:8;not null" json:"revision_type"`
	Modifications       datatypes.JSON     `gorm:"column:modifications" json:"modifications,omitempty"`
	DescribingData      datatypes.JSON     `gorm:"column:describing_data" json:"describing_data,omitempty"`
	DescribingRelations datatypes.JSON     `gorm:"column:describing_relations" json:"describing_relations,omitempty"`
}

func (ModifiedEntity) TableName() string { return "activity_modified_entity" }

// BatchJobChunkExecution is one chunk of a background batch job. Revisions
// produced while executing a chunk link to it and stay out of project feeds.
type BatchJobChunkExecution struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BatchJobID  int64     `gorm:"column:batch_job_id;not null;index" json:"batch_job_id"`
	ChunkNumber int       `gorm:"column:chunk_number;not null" json:"chunk_number"`
	Status      string    `gorm:"column:status;size:32;not null" json:"status"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (BatchJobChunkExecution) TableName() string { return "batch_job_chunk_execution" }

// PropertyModification is the JSON shape stored per field in
// ModifiedEntity.Modifications.
type PropertyModification struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// EntityTypeCount is one row of the modified-entity count aggregation.
type EntityTypeCount struct {
	RevisionID  int64  `json:"revision_id"`
	EntityClass string `json:"entity_class"`
	Count       int64  `json:"count"`
}

// DailyCount is the number of revisions recorded on Date (YYYY-MM-DD).
type DailyCount struct {
	Count int64  `json:"count"`
	Date  string `json:"date"`
}
