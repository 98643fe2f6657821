package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshift/videa/pkg/db/models"
)

type DB struct {
	DB *gorm.DB

	// BatchSize is used for how many insertions we should do at once.
	BatchSize int
}

// New connects to postgres using the given DSN.
func New(dsn string, logLevel logger.LogLevel) (*DB, error) {
	return Open(postgres.Open(dsn), logLevel)
}

// Open wraps any gorm dialector, tests use it with sqlite.
func Open(dialector gorm.Dialector, logLevel logger.LogLevel) (*DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	return &DB{
		DB:        db,
		BatchSize: 100,
	}, nil
}

// Tables in dependency order; ResetSchema drops them in reverse.
var Tables = []any{
	&models.Persona{},
	&models.Video{},
	&models.VideoCollection{},
	&models.CollectionVideo{},
	&models.Conversation{},
	&models.ConversationMessage{},
	&models.UserProfile{},
	&models.UserEnrollment{},
}

// UpdateSchema creates or migrates all tables.
func (d *DB) UpdateSchema() error {
	for _, model := range Tables {
		if err := d.DB.AutoMigrate(model); err != nil {
			return errors.Wrapf(err, "error migrating %T", model)
		}
	}
	log.Infof("schema up to date (%d tables)", len(Tables))
	return nil
}

// ResetSchema drops every table and recreates them empty.
func (d *DB) ResetSchema() error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if err := d.DB.Migrator().DropTable(Tables[i]); err != nil {
			return errors.Wrapf(err, "error dropping %T", Tables[i])
		}
	}
	log.Warn("dropped all tables")
	return d.UpdateSchema()
}

// Ping checks the underlying connection, used by the health probe.
func (d *DB) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
