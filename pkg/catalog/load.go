package catalog

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/db"
	"github.com/openshift/videa/pkg/db/models"
	"github.com/openshift/videa/pkg/db/query"
)

// DBReader reads reference data from the relational store.
type DBReader struct {
	dbc *db.DB
}

func NewDBReader(dbc *db.DB) *DBReader {
	return &DBReader{dbc: dbc}
}

func (r *DBReader) ListPersonas(ctx context.Context) ([]intakev1.Persona, error) {
	return query.ListPersonas(ctx, r.dbc)
}

func (r *DBReader) CollectionForPersona(ctx context.Context, personaID string) (*intakev1.Collection, error) {
	return query.CollectionForPersona(ctx, r.dbc, personaID)
}

// Load upserts the seed into the database and recomputes the collection totals. Running
// it twice leaves the same rows behind.
func (s *Seed) Load(ctx context.Context, dbc *db.DB) error {
	err := dbc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := func() *gorm.DB {
			return tx.Clauses(clause.OnConflict{UpdateAll: true})
		}

		for _, p := range s.Personas {
			row, err := personaRow(p)
			if err != nil {
				return err
			}
			if err := upsert().Create(&row).Error; err != nil {
				return errors.Wrapf(err, "error seeding persona %s", p.PersonaID)
			}
		}

		for _, v := range s.Videos {
			row := models.Video{
				VideoID:         v.VideoID,
				Title:           v.Title,
				Description:     v.Description(),
				YoutubeURL:      v.YoutubeURL(),
				DurationMinutes: v.DurationMinutes,
				Difficulty:      v.Difficulty,
				Topic:           v.Topic,
				Feature1:        v.Feature(0),
				Feature2:        v.Feature(1),
				Feature3:        v.Feature(2),
			}
			if err := upsert().Create(&row).Error; err != nil {
				return errors.Wrapf(err, "error seeding video %s", v.VideoID)
			}
		}

		for _, c := range s.Collections {
			row := models.VideoCollection{
				CollectionID:     c.CollectionID,
				Name:             c.Name,
				Description:      c.Description,
				TargetPersonaID:  c.TargetPersonaID,
				LearningPathType: c.LearningPathType,
				IsActive:         true,
			}
			if err := upsert().Omit(clause.Associations).Create(&row).Error; err != nil {
				return errors.Wrapf(err, "error seeding collection %s", c.CollectionID)
			}

			// the sequence is replaced wholesale so reordering in the seed file sticks
			if err := tx.Where("collection_id = ?", c.CollectionID).Delete(&models.CollectionVideo{}).Error; err != nil {
				return err
			}
			for i, vid := range c.Videos {
				cv := models.CollectionVideo{
					CollectionID:     c.CollectionID,
					VideoID:          vid,
					SequencePosition: i + 1,
					IsRequired:       true,
				}
				if err := tx.Omit(clause.Associations).Create(&cv).Error; err != nil {
					return errors.Wrapf(err, "error adding %s to %s", vid, c.CollectionID)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := query.RecomputeCollectionTotals(ctx, dbc); err != nil {
		return errors.WithMessage(err, "error recomputing collection totals")
	}
	log.WithFields(log.Fields{
		"personas":    len(s.Personas),
		"videos":      len(s.Videos),
		"collections": len(s.Collections),
	}).Info("catalog seeded")
	return nil
}

func personaRow(p intakev1.Persona) (models.Persona, error) {
	characteristics, err := query.EncodeJSONB(p.Characteristics)
	if err != nil {
		return models.Persona{}, err
	}
	rules, err := query.EncodeJSONB(p.DiagnosticRules)
	if err != nil {
		return models.Persona{}, err
	}
	return models.Persona{
		PersonaID:       p.PersonaID,
		Name:            p.Name,
		Description:     p.Description,
		Characteristics: characteristics,
		DiagnosticRules: rules,
	}, nil
}
