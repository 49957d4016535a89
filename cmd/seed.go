package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/db"
	"github.com/geospy/geospy-api/internal/service"
)

// SeedConfig holds seed configuration
type SeedConfig struct {
	Username string
	Password string
	Plan     string
	Force    bool
}

func (s *SeedConfig) Validate() []error {
	var errs = make([]error, 0)
	if s.Username == "" {
		errs = append(errs, errors.New("username cannot be empty"))
	}
	if len(s.Password) < 6 {
		errs = append(errs, errors.New("password must be at least 6 characters long"))
	}
	if !billing.Plan(s.Plan).Valid() {
		errs = append(errs, fmt.Errorf("unknown plan %q", s.Plan))
	}
	return errs
}

func NewSeedCommand() *cobra.Command {
	var configFilePath string
	seed := &SeedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := seed.Validate(); len(errs) > 0 {
				return errors.Join(errs...)
			}

			cfg, logger, err := bootstrap(configFilePath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			dbConn, closeDB, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := seedUser(dbConn, seed, logger)
			if err != nil {
				return err
			}
			if user != nil {
				logger.Info("user created",
					zap.Uint("user_id", user.ID),
					zap.String("username", user.Username),
					zap.String("plan", string(user.Plan)))
			}
			return nil
		},
	}

	addConfigFlag(cmd, &configFilePath)
	cmd.Flags().StringVarP(&seed.Username, "username", "u", "admin", "username")
	cmd.Flags().StringVarP(&seed.Password, "password", "p", "adminpass", "password")
	cmd.Flags().StringVar(&seed.Plan, "plan", string(billing.PlanFree), "subscription plan (free, pro, agency)")
	cmd.Flags().BoolVar(&seed.Force, "force", false, "recreate the user if it already exists")
	return cmd
}

// seedUser returns a nil user when the account exists and Force is not set.
func seedUser(dbConn *gorm.DB, seed *SeedConfig, logger *zap.Logger) (*db.User, error) {
	existing, err := service.GetUserByUsername(dbConn, seed.Username)
	switch {
	case err == nil && !seed.Force:
		logger.Warn("user already exists, use --force to recreate", zap.String("username", seed.Username))
		return nil, nil
	case err == nil:
		logger.Info("recreating user", zap.String("username", seed.Username))
		if err := dbConn.Delete(existing).Error; err != nil {
			return nil, fmt.Errorf("delete existing user: %w", err)
		}
	case !errors.Is(err, service.ErrNotFound):
		return nil, fmt.Errorf("look up user: %w", err)
	}

	return service.CreateUser(dbConn, seed.Username, seed.Password, billing.Plan(seed.Plan))
}
