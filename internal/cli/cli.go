// Package cli turns command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/courseflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("courseflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
courseflow - renders curriculum dependency charts from topic and event tables.

Usage:
  courseflow [options] TOPICS_TSV EVENTS_TSV

Arguments:
  TOPICS_TSV
    Tab-separated topics table: topic name, semicolon-separated dependency
    names, description. The first row is a header and is ignored.
  EVENTS_TSV
    Tab-separated events table: unit label, event display name, semicolon-
    separated taught topics, semicolon-separated required topics. The first
    row is a header and is ignored. The display name carries the event type
    (lecture, lab, homework/hw, project), the unit number, and an optional
    group letter, e.g. 'Lecture 3b - Pointers'.

Options:
`)
		flagSet.PrintDefaults()
	}

	outputDirFlag := flagSet.String("output-dir", "", "Directory to save chart files to. Overrides the config file.")
	outputPrefixFlag := flagSet.String("output-prefix", "", "Prefix prepended to chart file names. Overrides the config file.")
	configFlag := flagSet.String("config", "", "Path to an optional HCL file with output and style settings.")
	allTopicsFlag := flagSet.Bool("all-topics", false, "Draw the chart of every topic and its dependencies.")
	topicsByEventFlag := flagSet.Bool("topics-by-event", false, "Draw the chart of taught topics grouped by event.")
	fullFlag := flagSet.Bool("full", false, "Draw the chart of all events and all relations between them.")
	fFlag := flagSet.Bool("f", false, "Draw the full chart (shorthand).")
	var eventQueries stringList
	flagSet.Var(&eventQueries, "event", "Draw the chart focused on the matching event. Repeatable.")
	flagSet.Var(&eventQueries, "e", "Draw the chart focused on the matching event (shorthand). Repeatable.")
	var topicQueries stringList
	flagSet.Var(&topicQueries, "topic", "Draw the chart focused on the matching topic. Repeatable.")
	debugRankFlag := flagSet.Bool("debug-rank", false, "Draw the rank skeleton visibly in charts that use it.")
	dFlag := flagSet.Bool("d", false, "Draw the rank skeleton visibly (shorthand).")
	infoLevelFlag := flagSet.String("info-level", "warning",
		"Upper severity limit of data findings to print. Options: 'silent', 'error', 'warning', or 'info'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() < 2 {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 2 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(2))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	infoLevel := strings.ToLower(*infoLevelFlag)
	switch infoLevel {
	case "silent", "error", "warning", "info":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid info-level: must be 'silent', 'error', 'warning', or 'info'"}
	}

	config, err := app.NewConfig(app.Config{
		TopicsPath:    flagSet.Arg(0),
		EventsPath:    flagSet.Arg(1),
		ConfigPath:    *configFlag,
		OutputDir:     *outputDirFlag,
		OutputPrefix:  *outputPrefixFlag,
		AllTopics:     *allTopicsFlag,
		TopicsByEvent: *topicsByEventFlag,
		Full:          *fullFlag || *fFlag,
		EventQueries:  eventQueries,
		TopicQueries:  topicQueries,
		DebugRank:     *debugRankFlag || *dFlag,
		InfoLevel:     infoLevel,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if !config.AnyChart() {
		flagSet.Usage()
		return nil, true, nil
	}

	return config, false, nil
}
