package user

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerline/depositd/internal/application/user/dto"
	"github.com/ledgerline/depositd/internal/application/user/usecases"
	"github.com/ledgerline/depositd/internal/infrastructure/repository"
	"github.com/ledgerline/depositd/internal/interfaces/cli/common"
	"github.com/ledgerline/depositd/internal/shared/biztime"
)

var (
	env        string
	configPath string
	email      string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User administration",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	create := &cobra.Command{
		Use:   "create",
		Short: "Seed a user with a zero balance",
		RunE:  runCreate,
	}
	create.Flags().StringVar(&email, "email", "", "Email address (required)")
	_ = create.MarkFlagRequired("email")

	cmd.AddCommand(create)
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	e, err := common.Bootstrap(env, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	uc := usecases.NewCreateUserUseCase(repository.NewUserRepository(e.DB, e.Logger), biztime.SystemClock, e.Logger)
	created, err := uc.Execute(ctx, dto.CreateUserRequest{Email: email})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "User %d created (%s)\n", created.ID, created.Email)
	return nil
}
