package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openshift/videa/pkg/flags"
)

func NewMigrateCommand() *cobra.Command {
	f := flags.NewPostgresDatabaseFlags()
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates or initializes the PostgreSQL database to the latest schema.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbc, err := f.GetDBClient()
			if err != nil {
				return errors.WithMessage(err, "could not connect to db")
			}

			if reset {
				log.Warn("--reset given, all conversations and enrollments will be lost")
				if err := dbc.ResetSchema(); err != nil {
					return errors.WithMessage(err, "could not reset db")
				}
				return nil
			}

			if err := dbc.UpdateSchema(); err != nil {
				return errors.WithMessage(err, "could not migrate db")
			}
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop every table before migrating")
	return cmd
}
