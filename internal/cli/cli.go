package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/evogrid/internal/app"
)

// ExitError is an error that carries a process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Parse processes command-line arguments. It returns the app configuration,
// whether the program should exit cleanly right away, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("evogrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
evogrid - a modular evolutionary simulation runner.

Usage:
  evogrid [options] [SCRIPT...]

Arguments:
  SCRIPT
    A .hcl run script or a directory of them. Same as -f.

Options:
`)
		flagSet.PrintDefaults()
	}

	var files, sets stringList
	flagSet.Var(&files, "f", "Run script or directory to load (repeatable).")
	flagSet.Var(&files, "filename", "Run script or directory to load (repeatable).")
	flagSet.Var(&sets, "s", "Override a setting with name=value (repeatable).")
	flagSet.Var(&sets, "set", "Override a setting with name=value (repeatable).")
	generate := flagSet.String("g", "", "Write the effective configuration to this file and exit.")
	flagSet.StringVar(generate, "generate", "", "Write the effective configuration to this file and exit.")
	modules := flagSet.Bool("m", false, "List available module types.")
	flagSet.BoolVar(modules, "modules", false, "List available module types.")
	version := flagSet.Bool("v", false, "Print the version.")
	flagSet.BoolVar(version, "version", false, "Print the version.")
	verbose := flagSet.Bool("verbose", false, "Log at debug level.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	metricsPort := flagSet.Int("metrics-port", 0, "Port for the /health and /metrics server. 0 is disabled.")

	args, help, topic := extractHelp(args)
	if help && topic == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	files = append(files, flagSet.Args()...)
	slog.Debug("Arguments parsed successfully.", "files", len(files))

	if len(files) == 0 && !help && !*modules && !*version {
		slog.Debug("No run script provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *verbose {
		logLevel = "debug"
	}

	config, err := app.NewConfig(app.Config{
		Files:       files,
		Sets:        sets,
		Generate:    *generate,
		Help:        help,
		HelpTopic:   topic,
		ListModules: *modules,
		Version:     *version,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		MetricsPort: *metricsPort,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// extractHelp removes -h/--help and its optional topic from args. The
// standard flag package cannot express a flag with an optional value.
func extractHelp(args []string) (rest []string, help bool, topic string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "-help", "--help":
			help = true
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				topic = args[i+1]
				i++
			}
			continue
		case "--":
			return append(rest, args[i:]...), help, topic
		}
		rest = append(rest, args[i])
	}
	return rest, help, topic
}
