package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bartfeenstra/betty-sub005/ancestry"
	"github.com/bartfeenstra/betty-sub005/config"
	"github.com/bartfeenstra/betty-sub005/errors"
	"github.com/bartfeenstra/betty-sub005/gramps"
	"github.com/bartfeenstra/betty-sub005/logger"
)

// LoadCmd loads one or more Gramps archives into an ancestry graph and
// prints a summary of what was loaded.
var LoadCmd = &cobra.Command{
	Use:   "load [archive...]",
	Short: "Load Gramps archives into the ancestry graph",
	Long: `Load Gramps archives into one merged ancestry graph.

Archives given as arguments take precedence over the archives listed in the
configuration file. Independent archives are loaded concurrently; entities
sharing a public id across archives resolve last-write-wins.

Examples:
  betty load ancestry.gramps            # Load one archive
  betty load a.gramps b.gpkg            # Merge two archives
  betty load --watch ancestry.gramps    # Keep running, re-load on change`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		configPath, _ := cmd.Flags().GetString("config")

		return runLoad(args, configPath, watch, jsonOutput)
	},
}

func init() {
	LoadCmd.Flags().Bool("watch", false, "Keep running and re-load archives when they change")
	LoadCmd.Flags().Bool("json", false, "Output logs in JSON format")
}

func runLoad(archives []string, configPath string, watch, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := logger.Initialize(jsonOutput || cfg.Log.JSON); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	if len(archives) == 0 {
		archives = cfg.Archives
	}
	if len(archives) == 0 {
		return errors.New("no archives given and none configured")
	}

	graph := ancestry.New(logger.Logger)
	loader := gramps.NewLoader(graph, logger.Logger)

	if err := loader.LoadAll(archives); err != nil {
		return err
	}

	if !jsonOutput {
		printSummary(cfg.Title, graph.Stats())
	}

	if watch {
		watcher, err := gramps.NewArchiveWatcher(loader, archives, logger.Logger)
		if err != nil {
			return errors.Wrap(err, "failed to watch archives")
		}
		watcher.Start()
		defer watcher.Stop()

		logger.Infow("Watching archives for changes", "count", len(archives))
		waitForInterrupt()
	}
	return nil
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func printSummary(title string, stats ancestry.Stats) {
	pterm.DefaultHeader.WithFullWidth().Printf("%s", title)
	pterm.Println()

	data := pterm.TableData{
		{"Entity", "Count"},
		{"People", strconv.Itoa(stats.People)},
		{"Places", strconv.Itoa(stats.Places)},
		{"Events", strconv.Itoa(stats.Events)},
		{"Sources", strconv.Itoa(stats.Sources)},
		{"Citations", strconv.Itoa(stats.Citations)},
		{"Files", strconv.Itoa(stats.Files)},
		{"Notes", strconv.Itoa(stats.Notes)},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fmt.Printf("%+v\n", stats)
	}
}

func waitForInterrupt() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
}
