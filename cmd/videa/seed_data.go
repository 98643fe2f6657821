package main

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift/videa/pkg/catalog"
	"github.com/openshift/videa/pkg/flags"
)

type SeedDataFlags struct {
	DBFlags      *flags.PostgresFlags
	InitDatabase bool
}

func NewSeedDataFlags() *SeedDataFlags {
	return &SeedDataFlags{
		DBFlags: flags.NewPostgresDatabaseFlags(),
	}
}

func (f *SeedDataFlags) BindFlags(fs *pflag.FlagSet) {
	f.DBFlags.BindFlags(fs)
	fs.BoolVar(&f.InitDatabase, "init-database", false, "Initialize the DB schema before seeding data")
}

func NewSeedDataCommand() *cobra.Command {
	f := NewSeedDataFlags()

	cmd := &cobra.Command{
		Use:   "seed-data",
		Short: "Load the persona and video catalog",
		Long: `Load the built in catalog of personas, videos and collections.

Rows are upserted by id, so the command can be re-run after editing the catalog
without touching conversations or enrollments.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := catalog.LoadSeed()
			if err != nil {
				return errors.WithMessage(err, "invalid catalog")
			}

			dbc, err := f.DBFlags.GetDBClient()
			if err != nil {
				return errors.WithMessage(err, "could not connect to database")
			}

			if f.InitDatabase {
				log.Info("Initializing database schema...")
				if err := dbc.UpdateSchema(); err != nil {
					return errors.WithMessage(err, "could not migrate database")
				}
			}

			if err := seed.Load(context.Background(), dbc); err != nil {
				return errors.WithMessage(err, "could not load catalog")
			}
			log.Info("catalog loaded")
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
