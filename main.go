package main

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dalil-edge/dalil-edge/internal/cache"
	"github.com/dalil-edge/dalil-edge/internal/config"
	"github.com/dalil-edge/dalil-edge/internal/directory"
	"github.com/dalil-edge/dalil-edge/internal/logging"
	"github.com/dalil-edge/dalil-edge/internal/proxy"
	"github.com/dalil-edge/dalil-edge/internal/resolver"
	"github.com/dalil-edge/dalil-edge/internal/server"
	"github.com/dalil-edge/dalil-edge/internal/server/routes"
	"github.com/dalil-edge/dalil-edge/internal/version"
)

// cliOptions gathers parsed CLI flags so tests can inject them.
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run executes the resolved CLI options and returns an exit code.
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "failed to init logger: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["origin"] = cfg.Global.OriginURL
		fields["api"] = cfg.Global.APIBaseURL
		fields["extra_reserved"] = len(cfg.Global.ExtraReservedSlugs)
		fields["result"] = "ok"
		logger.WithFields(fields).Info("config check passed")
		return 0
	}

	originURL, err := url.Parse(cfg.Global.OriginURL)
	if err != nil {
		fmt.Fprintf(stdErr, "failed to parse origin URL: %v\n", err)
		return 1
	}

	// Wiring order: config → shared HTTP client → directory client →
	// cached lookup → resolver → forwarder → Fiber app. All requests share
	// the same client and verdict cache.
	httpClient := server.NewUpstreamClient(cfg)

	dirClient, err := directory.NewClient(httpClient, cfg.Global.APIBaseURL, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "failed to build directory client: %v\n", err)
		return 1
	}
	lookup := directory.NewCachedLookup(dirClient, cache.NewSlugCache(
		cfg.Global.LookupCacheTTL.DurationValue(),
		cfg.Global.LookupCacheSize,
	))

	res := resolver.New(resolver.Options{
		Lookup:              lookup,
		LookupTimeout:       cfg.Global.LookupTimeout.DurationValue(),
		DefaultLocationSlug: cfg.Global.DefaultLocationSlug,
		LocationCookie:      cfg.Global.LocationCookie,
		AuthCookie:          cfg.Global.AuthCookie,
		ExtraReservedSlugs:  cfg.Global.ExtraReservedSlugs,
		Logger:              logger,
	})

	forwarder := proxy.NewForwarder(httpClient, originURL, logger)

	fields := logging.BaseFields("startup", opts.configPath)
	fields["origin"] = cfg.Global.OriginURL
	fields["api"] = cfg.Global.APIBaseURL
	fields["listen_port"] = cfg.Global.ListenPort
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("config loaded")

	if err := startHTTPServer(cfg, res, forwarder, dirClient, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP server failed: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags parses CLI args, combining them with the environment to
// compute the final config path.
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("dalil-edge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "config file path (default ./config.toml, overridable via DALIL_EDGE_CONFIG)")
	fs.BoolVar(&checkOnly, "check-config", false, "validate the config and exit")
	fs.BoolVar(&showVer, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("failed to parse flags: %w", err)
	}

	path := os.Getenv("DALIL_EDGE_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(
	cfg *config.Config,
	res *resolver.Resolver,
	origin server.OriginHandler,
	dir routes.BusinessSource,
	logger *logrus.Logger,
) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Resolver:   res,
		Origin:     origin,
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.Register(app, routes.Deps{
		Logger:          logger,
		Directory:       dir,
		Origin:          cfg.Global.OriginURL,
		DefaultLocation: cfg.Global.DefaultLocationSlug,
	})

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber server starting")

	return app.Listen(fmt.Sprintf(":%d", port))
}
