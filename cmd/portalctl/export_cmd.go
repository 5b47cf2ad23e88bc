package main

import (
	"fmt"
	"os"
	"time"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/dataexchange"
	"ippis-portal/internal/employee"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportEmployeesCmd() *cobra.Command {
	var (
		out          string
		status       string
		departmentID string
	)

	cmd := &cobra.Command{
		Use:   "export-employees",
		Short: "Write the backend employee list to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if out == "" {
				out = fmt.Sprintf("employees-%s.xlsx", time.Now().Format("20060102"))
			}

			client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Timeout, logger)
			employees := employee.NewService(employee.NewRepository(client), nil, nil, logger)
			svc := dataexchange.NewService(employees, nil, nil, dataexchange.Options{}, logger)

			q := backend.ListQuery{Filters: map[string]string{}}
			if status != "" {
				q.Filters["status"] = status
			}
			if departmentID != "" {
				q.Filters["department_id"] = departmentID
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}

			n, err := svc.ExportEmployees(cmd.Context(), q, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}

			logger.Info("employees exported", zap.String("file", out), zap.Int("rows", n))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default employees-YYYYMMDD.xlsx)")
	cmd.Flags().StringVar(&status, "status", "", "Only employees with this status")
	cmd.Flags().StringVar(&departmentID, "department-id", "", "Only employees in this department")
	return cmd
}
