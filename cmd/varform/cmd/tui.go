package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"varcvar-api/internal/config"
	"varcvar-api/internal/form"
	applog "varcvar-api/internal/logger"
	"varcvar-api/internal/models"
	"varcvar-api/internal/recorder"
	"varcvar-api/internal/services"
	"varcvar-api/internal/tui"
)

var logFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Fill in the parameter form interactively",
	Long: `Open the parameter form in the terminal. Submitted snapshots go to the
diagnostic log file and, when configured, to the recorder and backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()

		log := applog.New(applog.Config{Level: cfg.LogLevel, Out: f})
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var backend *services.BackendClient
		if cfg.BackendURL != "" {
			backend = services.NewBackendClient(cfg.BackendURL)
		}
		svc := services.NewSubmissionService(log, recorder.Open(ctx, cfg, log), backend,
			time.Duration(cfg.SubmissionTTLMinutes)*time.Minute)
		defer svc.Close()

		model := tui.NewModel(func(s *form.State) (*models.Submission, error) {
			return svc.Submit(ctx, s)
		})
		_, err = tea.NewProgram(model).Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringVar(&logFile, "log-file", "varform.log", "diagnostic log destination")
	rootCmd.AddCommand(tuiCmd)
}
