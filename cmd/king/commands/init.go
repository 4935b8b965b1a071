package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"king/internal/app"
	"king/internal/crypto"
	"king/internal/domain"
	"king/internal/store"
)

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new store file from bootstrap accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if _, err := os.Stat(cfg.DatabaseFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", cfg.DatabaseFile)
			}

			seeds, err := app.BootstrapSeeds(cfg, os.LookupEnv)
			if err != nil {
				return err
			}
			if len(seeds) == 0 {
				return errors.New("no bootstrap accounts: set TEACHER_USERNAME_1/TEACHER_PASSWORD_1 ... or use --seed")
			}
			hasher, err := crypto.NewPasswordHasher(cfg.Argon2Params())
			if err != nil {
				return err
			}
			s, err := store.NewSeededStore(hasher, seeds)
			if err != nil {
				return err
			}
			files, err := store.NewFileStore(cfg.DatabaseFile, cfg.Key(), cfg.NonceBytes(), cfg.CipherID())
			if err != nil {
				return err
			}
			if err := files.Save(s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store %s created with %d teachers and %d students.\n",
				cfg.DatabaseFile, s.Len(domain.RoleTeacher), s.Len(domain.RoleStudent))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing store file")
	return cmd
}
