package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/packline/packline/internal/intake"
	"github.com/packline/packline/pkg/report"
	"github.com/packline/packline/pkg/types"
)

func newWatchCmd() *cobra.Command {
	var dir string
	var settlingMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a drop directory and import new CSV batches",
		Long: `Start Packline in watch mode. Every CSV file dropped into the intake
directory is imported once it stops changing; results are logged and,
when enabled, raised as desktop notifications. Files already present
are imported on startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(dir, settlingMs)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "drop directory (default: intake.directory from config)")
	cmd.Flags().IntVar(&settlingMs, "settling", 0, "settling delay in milliseconds before a file is imported")

	return cmd
}

func runWatch(dir string, settlingMs int) error {
	// Root context cancelled by the first interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, err := buildEngine()
	if err != nil {
		return err
	}

	intakeCfg := eng.cfg.Intake
	if intakeCfg == nil {
		intakeCfg = &types.IntakeConfig{SettlingDelay: types.DefaultSettlingDelay}
	}
	if dir == "" {
		dir = intakeCfg.Directory
	}
	if dir == "" {
		return fmt.Errorf("no drop directory configured; pass --dir or set intake.directory")
	}
	if settlingMs == 0 {
		settlingMs = intakeCfg.SettlingDelay
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("drop directory %s does not exist", dir)
	}

	printInfo(fmt.Sprintf("Starting Packline v%s in watch mode", version))
	printInfo(fmt.Sprintf("Watching %s for CSV batches (Ctrl+C to stop)", dir))

	watcher := intake.NewWatcher(
		dir,
		time.Duration(settlingMs)*time.Millisecond,
		eng.importer,
		eng.notifier,
		eng.log.WithComponent("intake"),
	)

	if err := watcher.Run(ctx); err != nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}

	// Render what the run accumulated before shutting down.
	fmt.Println()
	printInfo("Shutting down; final report:")
	return report.NewGenerator(eng.ledger).Write(os.Stdout)
}
