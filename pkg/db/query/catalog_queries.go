package query

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgtype"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/db"
	"github.com/openshift/videa/pkg/db/models"
)

// ListPersonas returns every persona ordered by id.
func ListPersonas(ctx context.Context, dbc *db.DB) ([]intakev1.Persona, error) {
	rows := []models.Persona{}
	res := dbc.DB.WithContext(ctx).Order("persona_id").Find(&rows)
	if res.Error != nil {
		log.WithError(res.Error).Error("error listing personas")
		return nil, res.Error
	}

	personas := make([]intakev1.Persona, 0, len(rows))
	for _, row := range rows {
		p, err := personaFromRow(row)
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, nil
}

func personaFromRow(row models.Persona) (intakev1.Persona, error) {
	p := intakev1.Persona{
		PersonaID:   row.PersonaID,
		Name:        row.Name,
		Description: row.Description,
	}
	if err := decodeJSONB(row.Characteristics, &p.Characteristics); err != nil {
		return p, errors.Wrapf(err, "bad characteristics for persona %s", row.PersonaID)
	}
	if err := decodeJSONB(row.DiagnosticRules, &p.DiagnosticRules); err != nil {
		return p, errors.Wrapf(err, "bad diagnostic rules for persona %s", row.PersonaID)
	}
	return p, nil
}

// CollectionForPersona returns the first active collection targeting the persona, with
// its videos in sequence order, or nil when there is none.
func CollectionForPersona(ctx context.Context, dbc *db.DB, personaID string) (*intakev1.Collection, error) {
	row := models.VideoCollection{}
	res := dbc.DB.WithContext(ctx).
		Where("target_persona_id = ? AND is_active = ?", personaID, true).
		Order("collection_id").
		Preload("Videos", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sequence_position")
		}).
		Preload("Videos.Video").
		First(&row)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if res.Error != nil {
		log.WithError(res.Error).WithField("persona", personaID).Error("error loading collection")
		return nil, res.Error
	}
	return collectionFromRow(row), nil
}

func collectionFromRow(row models.VideoCollection) *intakev1.Collection {
	c := &intakev1.Collection{
		CollectionID:             row.CollectionID,
		Name:                     row.Name,
		Description:              row.Description,
		TargetPersonaID:          row.TargetPersonaID,
		TotalVideos:              row.TotalVideos,
		EstimatedDurationMinutes: row.EstimatedDurationMinutes,
		LearningPathType:         row.LearningPathType,
		Videos:                   make([]intakev1.Video, 0, len(row.Videos)),
	}
	for _, cv := range row.Videos {
		c.Videos = append(c.Videos, intakev1.Video{
			VideoID:          cv.VideoID,
			Title:            cv.Video.Title,
			Description:      cv.Video.Description,
			YoutubeURL:       cv.Video.YoutubeURL,
			DurationMinutes:  cv.Video.DurationMinutes,
			Difficulty:       cv.Video.Difficulty,
			Topic:            cv.Video.Topic,
			SequencePosition: cv.SequencePosition,
			IsRequired:       cv.IsRequired,
		})
	}
	return c
}

// RecomputeCollectionTotals derives total_videos and estimated_duration_minutes from the
// collection_videos mapping.
func RecomputeCollectionTotals(ctx context.Context, dbc *db.DB) error {
	var totals []struct {
		CollectionID string
		Videos       int
		Minutes      int
	}
	res := dbc.DB.WithContext(ctx).Table("collection_videos AS cv").
		Select("cv.collection_id, COUNT(*) AS videos, COALESCE(SUM(v.duration_minutes), 0) AS minutes").
		Joins("JOIN videos v ON v.video_id = cv.video_id").
		Group("cv.collection_id").
		Scan(&totals)
	if res.Error != nil {
		return res.Error
	}

	for _, t := range totals {
		res := dbc.DB.WithContext(ctx).Model(&models.VideoCollection{}).
			Where("collection_id = ?", t.CollectionID).
			Updates(map[string]any{
				"total_videos":               t.Videos,
				"estimated_duration_minutes": t.Minutes,
			})
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

// EncodeJSONB marshals v into a present JSONB value.
func EncodeJSONB(v any) (pgtype.JSONB, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return pgtype.JSONB{}, err
	}
	out := pgtype.JSONB{}
	if err := out.Set(data); err != nil {
		return pgtype.JSONB{}, err
	}
	return out, nil
}

func decodeJSONB(src pgtype.JSONB, v any) error {
	if src.Status != pgtype.Present {
		return nil
	}
	return json.Unmarshal(src.Bytes, v)
}
