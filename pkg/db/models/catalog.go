package models

import (
	"time"

	"github.com/jackc/pgtype"
)

// Persona is a learner archetype. Characteristics and DiagnosticRules hold the
// intakev1.PersonaCharacteristics and intakev1.DiagnosticRules documents.
type Persona struct {
	PersonaID       string `gorm:"primaryKey;size:50"`
	Name            string `gorm:"size:200;not null"`
	Description     string
	Characteristics pgtype.JSONB `gorm:"type:jsonb;not null"`
	DiagnosticRules pgtype.JSONB `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Video struct {
	VideoID         string `gorm:"primaryKey;size:50"`
	Title           string `gorm:"size:300;not null"`
	Description     string
	YoutubeURL      string `gorm:"size:500"`
	DurationMinutes int
	Difficulty      string `gorm:"size:50"`
	Topic           string `gorm:"size:100;index:idx_videos_topic"`
	Feature1        string `gorm:"column:feature_1;size:50;index:idx_videos_features"`
	Feature2        string `gorm:"column:feature_2;size:50;index:idx_videos_features"`
	Feature3        string `gorm:"column:feature_3;size:50;index:idx_videos_features"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// VideoCollection is an ordered learning path. TotalVideos and EstimatedDurationMinutes
// are derived from CollectionVideos and recomputed after seeding.
type VideoCollection struct {
	CollectionID             string `gorm:"primaryKey;size:50"`
	Name                     string `gorm:"size:200;not null"`
	Description              string
	TargetPersonaID          string            `gorm:"size:50;index"`
	TargetPersona            Persona           `gorm:"foreignKey:TargetPersonaID;references:PersonaID"`
	TotalVideos              int               `gorm:"default:0"`
	EstimatedDurationMinutes int               `gorm:"default:0"`
	LearningPathType         string            `gorm:"size:50"`
	IsActive                 bool              `gorm:"default:true"`
	Videos                   []CollectionVideo `gorm:"foreignKey:CollectionID;references:CollectionID;constraint:OnDelete:CASCADE;"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// CollectionVideo places a video at a position within a collection.
type CollectionVideo struct {
	ID               uint   `gorm:"primaryKey"`
	CollectionID     string `gorm:"size:50;uniqueIndex:idx_collection_video;uniqueIndex:idx_collection_position"`
	VideoID          string `gorm:"size:50;uniqueIndex:idx_collection_video"`
	Video            Video  `gorm:"foreignKey:VideoID;references:VideoID;constraint:OnDelete:CASCADE;"`
	SequencePosition int    `gorm:"not null;uniqueIndex:idx_collection_position"`
	IsRequired       bool   `gorm:"default:true"`
	Notes            string
}
