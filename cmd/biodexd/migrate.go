package main

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/sophieizhu/biodex/internal/model"
	"github.com/sophieizhu/biodex/internal/repo"
	"github.com/sophieizhu/biodex/internal/usecase"
)

const seedFlagName = "seed"

func MigrateCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "bring the database schema up to date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := repo.NewDatabase(cfg.DatabasePath, logger.Named("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(); err != nil {
				return err
			}

			seed, err := cmd.Flags().GetBool(seedFlagName)
			if err != nil {
				return err
			}
			if !seed {
				return nil
			}

			return seedDemoData(cmd.Context(), db)
		},
	}
	cmd.Flags().Bool(seedFlagName, false, "insert demo users and species")
	return cmd
}

func seedDemoData(ctx context.Context, db *repo.Database) error {
	auth := usecase.NewAuthService(db.Users(), hclog.NewNullLogger())
	species := db.Species()

	bio := "Keeps the guinea pig records honest."
	demo, err := auth.Register(ctx, "demo@biodex.local", "Demo User", "changeme", &bio)
	if errors.Is(err, model.ErrAlreadyExists) {
		return nil
	} else if err != nil {
		return err
	}

	pop := int64(700000)
	examples := []model.SpeciesPatch{
		{
			ScientificName:  "Cavia porcellus",
			CommonName:      strptr("Guinea pig"),
			Kingdom:         model.KingdomAnimalia,
			TotalPopulation: &pop,
			Description:     strptr("Domesticated rodent kept worldwide as a companion animal."),
		},
		{
			ScientificName: "Amanita muscaria",
			CommonName:     strptr("Fly agaric"),
			Kingdom:        model.KingdomFungi,
			Description:    strptr("The red-and-white toadstool of storybooks."),
		},
	}
	for _, p := range examples {
		if _, err := species.Create(ctx, demo.ID, p); err != nil {
			return err
		}
	}
	return nil
}

func strptr(s string) *string { return &s }
