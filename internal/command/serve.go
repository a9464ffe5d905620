package command

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adamwoolhether/assinafy/assinafytest"
	"github.com/adamwoolhether/assinafy/internal/web/server"
)

// serveFake runs the in-memory API on a real address for local development.
type serveFake struct {
	*meta

	flagAddr      string
	flagToken     string
	flagWebhook   string
	flagWorkspace string
	flagDebug     bool
}

func (c *serveFake) Synopsis() string { return "Serve an in-memory fake of the API" }

func (c *serveFake) Help() string {
	return `Usage: assinafy serve-fake [options]

  Serves an in-memory fake of the Assinafy API until interrupted. A
  workspace is seeded and its id printed; point ASSINAFY_BASE_URL at the
  printed URL to use it.`
}

func (c *serveFake) flagSet() *flag.FlagSet {
	f := flag.NewFlagSet("serve-fake", flag.ContinueOnError)
	f.StringVar(&c.flagAddr, "addr", "127.0.0.1:8080", "Listen address.")
	f.StringVar(&c.flagToken, "token", assinafytest.DefaultToken, "Accepted bearer token.")
	f.StringVar(&c.flagWebhook, "webhook", "", "URL notified when a document completes.")
	f.StringVar(&c.flagWorkspace, "workspace", "Local", "Name of the seeded workspace.")
	f.BoolVar(&c.flagDebug, "debug", false, "Log every request.")

	return f
}

func (c *serveFake) Run(args []string) int {
	f := c.flagSet()
	f.SetOutput(c.logOut)
	if err := f.Parse(args); err != nil {
		c.ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	level := slog.LevelInfo
	if c.flagDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.logOut, &slog.HandlerOptions{Level: level}))

	opts := []assinafytest.Option{assinafytest.WithToken(c.flagToken), assinafytest.WithLogger(logger)}
	if c.flagWebhook != "" {
		opts = append(opts, assinafytest.WithWebhook(c.flagWebhook))
	}

	host := c.flagAddr
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	fake := assinafytest.NewHandler("http://"+host, opts...)
	ws := fake.AddWorkspace(c.flagWorkspace)

	c.ui.Output(fmt.Sprintf("base_url: %s\ntoken: %s\naccount_id: %s", fake.URL, fake.Token, ws.ID))

	srv := server.New(fake.Handler(), server.WithHost(c.flagAddr), server.WithLogger(logger))
	if err := srv.Run(c.ctx); err != nil {
		c.ui.Error(err.Error())
		return 1
	}

	return 0
}
