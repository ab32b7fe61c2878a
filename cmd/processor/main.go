// Command processor aggregates the daily KOSDY service-call extracts into
// serviceData.json.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"svcpulse/internal/app"
	"svcpulse/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inDir := fs.String("in", "", "directory holding KOSDY-PROD.YYYYMMDD.csv files (defaults to paths.data_dir)")
	outFile := fs.String("out", "", "output JSON file (defaults to <paths.output_dir>/serviceData.json)")
	workers := fs.Int("workers", 0, "number of sources processed concurrently (defaults to run.parallelism)")
	configFile := fs.String("config", "", "path to svcpulse.yaml")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stderr, contracts.GetFullVersionString("processor"))
		return 0
	}
	if *workers < 0 {
		fmt.Fprintln(stderr, "-workers must not be negative")
		return 2
	}

	application, err := app.NewApplication(app.JobServiceData, app.Options{
		ConfigFile: *configFile,
		InputPath:  *inDir,
		OutputFile: *outFile,
		Workers:    *workers,
	})
	if err != nil {
		slog.Error("Failed to initialize", slog.String("error", err.Error()))
		return 1
	}

	if err := application.Run(app.JobServiceData); err != nil {
		return 1
	}
	return 0
}
