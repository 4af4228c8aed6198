package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/philipparndt/ifctakeoff/internal/config"
	"github.com/philipparndt/ifctakeoff/pkg/ifc"
	"github.com/philipparndt/ifctakeoff/pkg/report"
	"github.com/philipparndt/ifctakeoff/pkg/takeoff"
)

const (
	pathPrompt    = "Enter path to IFC-file (or drag-and-drop): "
	commandPrompt = "> "
)

var errCanceled = errors.New("canceled")

// commands maps the single-character commands to the category they show
var commands = map[string]takeoff.Category{
	"p": takeoff.PipeSegments,
	"d": takeoff.DuctSegments,
	"o": takeoff.DuctParts,
	"f": takeoff.PipeParts,
}

const helpText = `Commands:
  p  pipe lengths
  d  duct lengths
  o  duct parts
  f  pipe parts
  a  all categories
  c  write %s
  h  this help
  q  quit
`

// session is one interactive run: a path prompt followed by the command loop
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	in      *bufio.Scanner
	out     io.Writer
	console *report.Console
	failure *color.Color
	open    func(path string) (*ifc.Model, error)

	src    takeoff.Source
	tables map[string]*takeoff.Table
}

func newSession(cfg *config.Config, log *slog.Logger, in io.Reader, out io.Writer) *session {
	return &session{
		cfg:     cfg,
		log:     log,
		in:      bufio.NewScanner(in),
		out:     out,
		console: report.NewConsole(out),
		failure: color.New(color.FgRed),
		open: func(path string) (*ifc.Model, error) {
			return loadModel(log, path)
		},
		tables: make(map[string]*takeoff.Table),
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	return newSession(cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout()).run(path)
}

// run opens the model at path, or prompts for one when path is empty or
// cannot be opened, then serves commands until quit or end of input
func (s *session) run(path string) error {
	var model *ifc.Model
	if path != "" {
		m, err := s.open(path)
		if err != nil {
			s.openFailed(path, err)
		} else {
			model = m
		}
	}

	if model == nil {
		m, err := s.promptModel()
		if errors.Is(err, errCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
		model = m
	}

	s.src = takeoff.NewModelSource(model)
	return s.commandLoop()
}

func (s *session) promptModel() (*ifc.Model, error) {
	for {
		fmt.Fprint(s.out, pathPrompt)

		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			return nil, errCanceled
		}
		if err != nil {
			return nil, err
		}

		path := cleanPath(line)
		if path == "" {
			continue
		}
		if strings.EqualFold(path, s.cfg.Prompt.CancelToken) {
			s.log.Debug("canceled at path prompt")
			return nil, errCanceled
		}

		model, err := s.open(path)
		if err != nil {
			s.openFailed(path, err)
			continue
		}
		return model, nil
	}
}

func (s *session) openFailed(path string, err error) {
	s.failure.Fprintf(s.out, "Could not open %s\n", path)
	s.log.Debug("open failed", "path", path, "error", err)
}

func (s *session) commandLoop() error {
	s.printHelp()

	for {
		fmt.Fprint(s.out, commandPrompt)

		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		command := strings.ToLower(strings.TrimSpace(line))
		switch command {
		case "":
		case "q":
			return nil
		case "h", "?":
			s.printHelp()
		case "a":
			for _, c := range takeoff.Categories() {
				if err := s.show(c); err != nil {
					return err
				}
			}
		case "c":
			if err := s.export(); err != nil {
				return err
			}
		default:
			c, known := commands[command]
			if !known {
				s.failure.Fprintf(s.out, "Unknown command %q, type h for help\n", command)
				continue
			}
			if err := s.show(c); err != nil {
				return err
			}
		}
	}
}

// show prints one category. Data errors are reported and the loop goes on;
// only console write errors end it.
func (s *session) show(c takeoff.Category) error {
	table, err := s.table(c)
	if err != nil {
		s.dataError(err)
		return nil
	}
	return s.console.Print(c, table)
}

// export writes the CSV report of all categories
func (s *session) export() error {
	results := make([]takeoff.Result, 0, len(takeoff.Categories()))
	for _, c := range takeoff.Categories() {
		table, err := s.table(c)
		if err != nil {
			s.dataError(err)
			return nil
		}
		results = append(results, takeoff.Result{Category: c, Table: table})
	}

	if err := report.ExportCSV(s.cfg.Output.File, results, s.cfg.DelimiterRune()); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Wrote %s\n", s.cfg.Output.File)
	return nil
}

func (s *session) table(c takeoff.Category) (*takeoff.Table, error) {
	if table, ok := s.tables[c.Key]; ok {
		return table, nil
	}

	table, err := takeoff.Compute(s.src, c, s.cfg.Specs()[c.Key])
	if err != nil {
		return nil, err
	}
	s.tables[c.Key] = table
	return table, nil
}

func (s *session) dataError(err error) {
	var missing *takeoff.MissingPropertyError
	if errors.As(err, &missing) {
		s.log.Debug("missing property", "element", missing.ElementID, "pset", missing.Pset, "property", missing.Property)
	}
	s.failure.Fprintf(s.out, "Error: %v\n", err)
}

func (s *session) printHelp() {
	fmt.Fprintf(s.out, helpText, s.cfg.Output.File)
}

// readLine returns io.EOF at the end of input and any other read error,
// such as an over-long line, as is
func (s *session) readLine() (string, error) {
	if s.in.Scan() {
		return s.in.Text(), nil
	}
	if err := s.in.Err(); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return "", io.EOF
}

// cleanPath strips whitespace and the quotes terminals add to dropped paths
func cleanPath(line string) string {
	path := strings.TrimSpace(line)
	for _, q := range []string{`"`, `'`} {
		if len(path) >= 2 && strings.HasPrefix(path, q) && strings.HasSuffix(path, q) {
			path = path[1 : len(path)-1]
		}
	}
	return strings.ReplaceAll(path, `\ `, " ")
}
