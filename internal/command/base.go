package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mitchellh/cli"
	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/assinafy"
	"github.com/adamwoolhether/assinafy/client"
	"github.com/adamwoolhether/assinafy/internal/config"
)

// errUsage reports bad arguments; the command help is printed with it.
var errUsage = errors.New("invalid usage")

// meta is shared by every command.
type meta struct {
	ctx    context.Context
	ui     cli.Ui
	logOut io.Writer
}

// env is handed to a command once flags are parsed and the client is built.
type env struct {
	client   *assinafy.Client
	args     []string
	callOpts []client.CallOption
	logger   *slog.Logger
}

// command is a leaf subcommand: common flags, its own flags and a run func
// whose result is printed.
type command struct {
	*meta

	synopsis string
	usage    string
	// args is the number of positional arguments required.
	args  int
	flags func(f *flag.FlagSet)
	run   func(ctx context.Context, e env) (any, error)

	flagConfig  string
	flagFormat  string
	flagDebug   bool
	flagAccount string
}

func (c *command) Synopsis() string { return c.synopsis }

func (c *command) Help() string {
	var buf bytes.Buffer
	f := c.flagSet()
	f.SetOutput(&buf)
	f.PrintDefaults()

	return "Usage: assinafy " + c.usage + "\n\n  " + c.synopsis + "\n\nOptions:\n\n" + buf.String()
}

func (c *command) flagSet() *flag.FlagSet {
	f := flag.NewFlagSet(c.usage, flag.ContinueOnError)
	f.SetOutput(io.Discard)

	f.StringVar(&c.flagConfig, "config", "", "Path to a YAML config file. Defaults to $"+config.EnvConfig+".")
	f.StringVar(&c.flagFormat, "format", "json", "Output format: json or yaml.")
	f.BoolVar(&c.flagDebug, "debug", false, "Log every request to stderr.")
	f.StringVar(&c.flagAccount, "account", "", "Account id, overriding the configured default.")

	if c.flags != nil {
		c.flags(f)
	}

	return f
}

func (c *command) Run(args []string) int {
	f := c.flagSet()
	if err := f.Parse(args); err != nil {
		c.ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return cli.RunResultHelp
	}

	if f.NArg() != c.args {
		c.ui.Error(fmt.Sprintf("expected %d argument(s), got %d", c.args, f.NArg()))
		return cli.RunResultHelp
	}

	if c.flagFormat != "json" && c.flagFormat != "yaml" {
		c.ui.Error(fmt.Sprintf("unknown format %q", c.flagFormat))
		return cli.RunResultHelp
	}

	e, err := c.env(f.Args())
	if err != nil {
		c.ui.Error(err.Error())
		return 1
	}

	res, err := c.run(c.ctx, e)
	if err != nil {
		c.ui.Error(err.Error())
		if errors.Is(err, errUsage) {
			return cli.RunResultHelp
		}
		return 1
	}

	out, err := render(res, c.flagFormat)
	if err != nil {
		c.ui.Error(fmt.Sprintf("rendering output: %v", err))
		return 1
	}
	c.ui.Output(out)

	return 0
}

func (c *command) env(args []string) (env, error) {
	level := slog.LevelWarn
	if c.flagDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.logOut, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(c.flagConfig)
	if err != nil {
		return env{}, fmt.Errorf("loading config: %w", err)
	}

	opts, err := cfg.ClientOptions()
	if err != nil {
		return env{}, fmt.Errorf("loading config: %w", err)
	}

	ac, err := assinafy.NewClient(cfg.Token, append(opts, client.WithLogger(logger))...)
	if err != nil {
		return env{}, fmt.Errorf("building client: %w", err)
	}

	e := env{client: ac, args: args, logger: logger}
	if c.flagAccount != "" {
		e.callOpts = []client.CallOption{client.ForAccount(c.flagAccount)}
	}

	return e, nil
}

// render prints v as indented JSON, or as YAML keeping the JSON field names
// and order.
func render(v any, format string) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}

	if format != "yaml" {
		return string(b), nil
	}

	var n yaml.Node
	if err := yaml.Unmarshal(b, &n); err != nil {
		return "", err
	}
	blockStyle(&n)

	out, err := yaml.Marshal(&n)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(out), "\n"), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

// group is a command that only lists its subcommands.
type group struct {
	synopsis string
	help     string
}

func (g group) Synopsis() string   { return g.synopsis }
func (g group) Help() string       { return g.help }
func (g group) Run(_ []string) int { return cli.RunResultHelp }

// stringsFlag collects a repeatable flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}
