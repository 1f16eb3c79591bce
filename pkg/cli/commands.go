package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packline/packline/pkg/batch"
	"github.com/packline/packline/pkg/config"
	"github.com/packline/packline/pkg/ledger"
	"github.com/packline/packline/pkg/logger"
	"github.com/packline/packline/pkg/notifier"
	"github.com/packline/packline/pkg/report"
	"github.com/packline/packline/pkg/types"
)

// engine bundles the wired components for one run
type engine struct {
	cfg      *types.PacklineConfig
	log      logger.Logger
	ledger   *ledger.Ledger
	importer *batch.Importer
	notifier *notifier.LineNotifier
}

func buildEngine() (*engine, error) {
	cfg, err := loadOrDefaultConfig()
	if err != nil {
		return nil, err
	}

	log := logger.CreateLogger(logFile(cfg), logLevel(cfg))
	l := ledger.New(cfg, log)

	notifyEnabled := cfg.Notifications != nil && cfg.Notifications.Enabled

	return &engine{
		cfg:      cfg,
		log:      log,
		ledger:   l,
		importer: batch.NewImporter(l, cfg.Batch, log.WithComponent("batch")),
		notifier: notifier.New(notifier.Config{Enabled: notifyEnabled}, log),
	}, nil
}

func newImportCmd() *cobra.Command {
	var withReport bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a batch of parts from a CSV file",
		Long: `Register every part listed in a CSV batch file. The file needs a
header row naming the weight, color and length columns (names are
configurable); extra columns are ignored. Rows with malformed values
are reported individually and do not stop the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], withReport)
		},
	}

	cmd.Flags().BoolVarP(&withReport, "report", "r", false, "print the full production report after importing")

	return cmd
}

func runImport(path string, withReport bool) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}

	printInfo(fmt.Sprintf("Processing batch %s", path))

	result, err := eng.importer.ImportFile(path)
	if err != nil {
		eng.notifier.NotifyBatchFailed(path, err)
		return fmt.Errorf("batch aborted: %w", err)
	}

	report.WriteBatchSummary(os.Stdout, report.BatchOutcome{
		Processed: result.Processed,
		Approved:  result.Approved,
		Rejected:  result.Rejected,
		Errors:    result.ErrorMessages(),
	}, len(eng.ledger.Boxes()))

	eng.notifier.NotifyBatchComplete(path, result.Processed, result.Approved, result.Rejected, len(result.Errors))

	if withReport {
		if err := report.NewGenerator(eng.ledger).Write(os.Stdout); err != nil {
			return err
		}
	}

	return nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  `Load the configuration file and check tolerances, box capacity and batch column names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
}

func runValidate() error {
	path := getConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		printWarning(fmt.Sprintf("No configuration at %s; built-in defaults apply", path))
		return nil
	}

	manager := config.NewManager()
	cfg, err := manager.LoadConfig(path)
	if err != nil {
		printError(fmt.Sprintf("Configuration invalid: %v", err))
		return err
	}

	printSuccess(fmt.Sprintf("Configuration at %s is valid", path))
	printInfo(fmt.Sprintf("Weight tolerance: %g-%g g", cfg.Quality.Weight.Min, cfg.Quality.Weight.Max))
	printInfo(fmt.Sprintf("Length tolerance: %g-%g cm", cfg.Quality.Length.Min, cfg.Quality.Length.Max))
	printInfo(fmt.Sprintf("Allowed colors: %v", cfg.Quality.AllowedColors))
	printInfo(fmt.Sprintf("Box capacity: %d", cfg.Packing.BoxCapacity))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("🏭 Packline v%s\n", version)
		},
	}
}
