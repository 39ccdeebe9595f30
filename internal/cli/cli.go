package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/pdrpinto/surfacenav"
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

const (
	CommandBuild = "build"
	CommandPath  = "path"
	CommandServe = "serve"
)

// Command is a parsed invocation. Only the section matching Name is set.
type Command struct {
	Name      string
	LogFormat string
	LogLevel  string

	Build BuildArgs
	Path  PathArgs
	Serve ServeArgs
}

type BuildArgs struct {
	ConfigPath string
	OutPath    string
}

type PathArgs struct {
	GridPath string
	From     surfacenav.Vec3
	To       surfacenav.Vec3
}

type ServeArgs struct {
	ConfigPath string
	Addr       string
	CachePath  string
	MaxSteps   int
}

const usage = `
surfacenav - surface navigation grids and A* path queries.

Usage:
  surfacenav build -config FILE -out FILE [options]
  surfacenav path  -grid FILE -from X,Y,Z -to X,Y,Z [options]
  surfacenav serve -config FILE [-addr ADDR] [-cache FILE] [options]

Run "surfacenav COMMAND -h" for the options of a command.
`

// Parse processes command-line arguments. It returns the parsed Command, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Command, bool, error) {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "--help" {
		fmt.Fprint(output, usage)
		return nil, true, nil
	}

	command := &Command{Name: args[0]}
	flagSet := flag.NewFlagSet("surfacenav "+command.Name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVar(&command.LogFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&command.LogLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	var from, to string
	switch command.Name {
	case CommandBuild:
		flagSet.StringVar(&command.Build.ConfigPath, "config", "", "Path to the YAML build file.")
		flagSet.StringVar(&command.Build.OutPath, "out", "grid.snav", "Path of the snapshot to write.")
	case CommandPath:
		flagSet.StringVar(&command.Path.GridPath, "grid", "", "Path to a snapshot written by build.")
		flagSet.StringVar(&from, "from", "", "Start point as X,Y,Z.")
		flagSet.StringVar(&to, "to", "", "Goal point as X,Y,Z.")
	case CommandServe:
		flagSet.StringVar(&command.Serve.ConfigPath, "config", "", "Path to the YAML build file. Edits trigger a rebuild.")
		flagSet.StringVar(&command.Serve.Addr, "addr", ":8080", "Address the visualiser listens on.")
		flagSet.StringVar(&command.Serve.CachePath, "cache", "", "Path to a SQLite grid cache. Empty disables caching.")
		flagSet.IntVar(&command.Serve.MaxSteps, "max-steps", 20000, "Maximum animated expansions per path request.")
	default:
		fmt.Fprint(output, usage)
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command.Name)}
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	command.LogFormat = strings.ToLower(command.LogFormat)
	if command.LogFormat != "text" && command.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	command.LogLevel = strings.ToLower(command.LogLevel)
	switch command.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	switch command.Name {
	case CommandBuild:
		if command.Build.ConfigPath == "" {
			return nil, false, &ExitError{Code: 2, Message: "build: -config is required"}
		}
		if command.Build.OutPath == "" {
			return nil, false, &ExitError{Code: 2, Message: "build: -out must not be empty"}
		}
	case CommandPath:
		if command.Path.GridPath == "" {
			return nil, false, &ExitError{Code: 2, Message: "path: -grid is required"}
		}
		var err error
		if command.Path.From, err = ParseVec(from); err != nil {
			return nil, false, &ExitError{Code: 2, Message: "path: -from: " + err.Error()}
		}
		if command.Path.To, err = ParseVec(to); err != nil {
			return nil, false, &ExitError{Code: 2, Message: "path: -to: " + err.Error()}
		}
	case CommandServe:
		if command.Serve.ConfigPath == "" {
			return nil, false, &ExitError{Code: 2, Message: "serve: -config is required"}
		}
		if command.Serve.MaxSteps <= 0 {
			return nil, false, &ExitError{Code: 2, Message: "serve: -max-steps must be positive"}
		}
	}

	slog.Debug("CLI parser finished successfully.", "command", command.Name)
	return command, false, nil
}

// ParseVec parses "x,y,z" into a Vec3.
func ParseVec(value string) (surfacenav.Vec3, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return surfacenav.Vec3{}, fmt.Errorf("want X,Y,Z, got %q", value)
	}
	var components [3]float64
	for index, part := range parts {
		component, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return surfacenav.Vec3{}, fmt.Errorf("component %d of %q: %w", index, value, err)
		}
		if math.IsNaN(component) || math.IsInf(component, 0) {
			return surfacenav.Vec3{}, fmt.Errorf("component %d of %q is not finite", index, value)
		}
		components[index] = component
	}
	return surfacenav.Vec3{X: components[0], Y: components[1], Z: components[2]}, nil
}

// NewLogger builds the process logger from the validated level and format.
func NewLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}
