package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"money-drop-service/internal/config"
	"money-drop-service/internal/infra/memory"
	pgstore "money-drop-service/internal/infra/postgres"
)

// NewSeedCmd loads a YAML question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the question bank into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel(cfg.Log.Level)}))

			if file == "" {
				file = cfg.Questions.File
			}
			if file == "" {
				file = defaultQuestionsFile
			}
			bank, err := memory.LoadQuestionBank(file)
			if err != nil {
				return err
			}

			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := RunMigrations(cmd.Context(), db, logger); err != nil {
				return err
			}

			n, err := pgstore.NewQuestionWriter(db).Upsert(cmd.Context(), bank.Questions())
			if err != nil {
				return err
			}
			logger.Info("questions seeded", "file", file, "count", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "question bank YAML (defaults to questions.file from config)")
	return cmd
}
