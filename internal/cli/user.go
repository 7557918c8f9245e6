package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/document-service/internal/domain"
	"github.com/spec-kit/document-service/internal/persistence"
	"github.com/spec-kit/document-service/internal/repository"
)

func newUserCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserSetRoleCmd(load))
	return cmd
}

// newUserSetRoleCmd bootstraps the first admin, which the API cannot do.
func newUserSetRoleCmd(load loader) *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Change the role of an account by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := domain.Role(role)
			if !target.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync() //nolint:errcheck

			pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()

			users := repository.NewUserRepository(pg.PoolHandle())
			user, err := users.GetByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("find user %s: %w", email, err)
			}
			if err := users.UpdateRole(cmd.Context(), user.ID, target); err != nil {
				return fmt.Errorf("update role: %w", err)
			}
			logger.Info("role changed via docctl",
				zap.String("user_id", user.ID),
				zap.String("old_role", string(user.Role)),
				zap.String("new_role", role))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", user.Email, user.Role, target)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&role, "role", "", "New role (admin, manager, user)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
