package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/jsphweid/phrasekit/config"
	"github.com/jsphweid/phrasekit/constants"
	"github.com/jsphweid/phrasekit/logger"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	rootDir string
	destDir string
)

var rootCmd = &cobra.Command{
	Use:   "phrasekit",
	Short: "Analyze and rewrite MIDI clips",
	Long: `Analyze MIDI clips (key, texture, tempo, meter) and write rewritten copies
for use as phrase or arpeggiator material on hardware synths.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "library of source clips (default $PHRASEKIT_ROOT or the working directory)")
	rootCmd.PersistentFlags().StringVar(&destDir, "dest", "", "where rewritten files are written (default <root>/selected)")
}

func initConfig() {
	// a missing .env is fine
	_ = godotenv.Load()
	cfg = config.Load()

	if rootDir != "" {
		if abs, err := filepath.Abs(rootDir); err == nil {
			cfg.Root = abs
		}
		if os.Getenv("PHRASEKIT_DEST") == "" {
			cfg.Dest = filepath.Join(cfg.Root, constants.DefaultDestDirName)
		}
	}
	if destDir != "" {
		cfg.Dest = destDir
	}

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			// sdk chatter outside production only
			Debug: !cfg.IsProduction(),
		})
		if err != nil {
			logger.Warn("Sentry initialization failed", logger.Fields{"error": err.Error()})
		}
	}
}

func Execute() {
	err := rootCmd.Execute()
	sentry.Flush(2 * time.Second)
	cobra.CheckErr(err)
}
