// Command klasse builds klasseData.json from the case classification
// workbook. It exits non-zero when the workbook is missing.
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
	fs := flag.NewFlagSet("klasse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inFile := fs.String("in", "", "case report workbook (defaults to <paths.data_dir>/sagKlasseReport.xlsx)")
	outFile := fs.String("out", "", "output JSON file (defaults to <paths.output_dir>/klasseData.json)")
	configFile := fs.String("config", "", "path to svcpulse.yaml")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stderr, contracts.GetFullVersionString("klasse"))
		return 0
	}

	application, err := app.NewApplication(app.JobKlasseData, app.Options{
		ConfigFile: *configFile,
		InputPath:  *inFile,
		OutputFile: *outFile,
	})
	if err != nil {
		slog.Error("Failed to initialize", slog.String("error", err.Error()))
		return 1
	}

	if err := application.Run(app.JobKlasseData); err != nil {
		return 1
	}
	return 0
}
