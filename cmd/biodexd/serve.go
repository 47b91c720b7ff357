package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/sophieizhu/biodex/internal/changes"
	"github.com/sophieizhu/biodex/internal/repo"
	"github.com/sophieizhu/biodex/internal/session"
	"github.com/sophieizhu/biodex/internal/usecase"
	"github.com/sophieizhu/biodex/internal/web"
)

func ServeCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the web application",
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

			sessions, err := session.NewStore(cfg.SessionTTL)
			if err != nil {
				return err
			}

			broadcaster := changes.NewBroadcaster()
			speciesSvc := usecase.NewSpeciesService(db.Species(), logger.Named("species"))
			authSvc := usecase.NewAuthService(db.Users(), logger.Named("auth"))

			srv, err := web.NewServer(speciesSvc, authSvc, sessions, broadcaster, cfg.SecureCookies, logger.Named("web"))
			if err != nil {
				return err
			}

			logger.Info("listening", "addr", cfg.ListenAddr)
			return http.ListenAndServe(cfg.ListenAddr, srv)
		},
	}
}
