package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"ippis-portal/internal/auth"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type createUserInput struct {
	Email      string
	Name       string
	Password   string
	CompanyID  string
	EmployeeID string
	Role       string
}

func (in *createUserInput) validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.CompanyID = strings.TrimSpace(in.CompanyID)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))

	var errs []error
	if _, err := mail.ParseAddress(in.Email); err != nil {
		errs = append(errs, fmt.Errorf("--email %q is not a valid address", in.Email))
	}
	if in.Name == "" {
		errs = append(errs, errors.New("--name is required"))
	}
	if len(in.Password) < 8 {
		errs = append(errs, errors.New("--password must be at least 8 characters"))
	}
	if in.CompanyID == "" {
		errs = append(errs, errors.New("--company-id is required"))
	}
	if in.Role == "" {
		in.Role = "EMPLOYEE"
	}
	return errors.Join(errs...)
}

func newCreateUserCmd() *cobra.Command {
	var in createUserInput

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a local portal account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.validate(); err != nil {
				return err
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, closeDB, err := connectDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			u, err := createUser(cmd.Context(), auth.NewRepository(db), in)
			if err != nil {
				return err
			}
			logger.Info("user created",
				zap.String("user_id", u.ID.String()),
				zap.String("company_id", u.CompanyID),
				zap.String("role", u.Role),
			)
			fmt.Fprintln(cmd.OutOrStdout(), u.ID.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password, at least 8 characters (required)")
	cmd.Flags().StringVar(&in.CompanyID, "company-id", "", "Organisation (MDA) code the account belongs to (required)")
	cmd.Flags().StringVar(&in.EmployeeID, "employee-id", "", "Linked IPPIS employee record")
	cmd.Flags().StringVar(&in.Role, "role", "EMPLOYEE", "Role claim, e.g. SUPERADMIN, ADMIN, HR")
	for _, f := range []string{"email", "name", "password", "company-id"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func createUser(ctx context.Context, repo auth.Repository, in createUserInput) (*auth.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if existing, err := repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("a user with email %s already exists", in.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &auth.User{
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hashed),
		Role:      in.Role,
		IsActive:  true,
	}
	if eid := strings.TrimSpace(in.EmployeeID); eid != "" {
		u.EmployeeID = &eid
	}

	if err := repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
