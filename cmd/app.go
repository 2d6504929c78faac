// Package cmd implements the pst command line application to value and
// analyze stock portfolios.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a yaml configuration file. Defaults to ./pst.yaml, then $HOME/.pst.yaml")

// the other global flags are read back through flagKeys.
func init() {
	flag.String("data", "", "Folder holding the portfolios of every user")
	flag.String("market", "", "Folder holding the market data files")
	flag.String("user", "", "User owning the portfolios")
	flag.Int("stars", 0, "Maximum number of stars of a performance chart")
	flag.Bool("raw", false, "Print reports as plain markdown")
	flag.Bool("v", false, "Verbose logging")
}

// flagKeys maps global flags to their configuration key.
var flagKeys = map[string]string{
	"data":   "data_dir",
	"market": "market_dir",
	"user":   "user",
	"stars":  "max_stars",
	"raw":    "raw",
	"v":      "verbose",
}

// envPrefix prefixes the environment variables overriding the configuration,
// e.g. PST_DATA_DIR.
const envPrefix = "PST"

// Config holds the settings shared by every command.
type Config struct {
	DataDir   string // root of the portfolio store
	MarketDir string // folder of the market data files
	User      string
	MaxStars  int
	Raw       bool
	Verbose   bool
}

var config = defaultConfig()

// outputs of the commands.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func defaultConfig() Config {
	user := os.Getenv("USER")
	if user == "" {
		user = "default"
	}
	return Config{
		DataDir:   filepath.Join(".pst", "portfolios"),
		MarketDir: filepath.Join(".pst", "market"),
		User:      user,
	}
}

// Setup reads the configuration and sets up logging. Flags set in top take
// precedence over the environment, which takes precedence over the
// configuration file.
func Setup(top *flag.FlagSet) error {
	c, err := loadConfig(*configFile, top)
	if err != nil {
		return err
	}
	config = c
	setupLogging(c.Verbose)
	return nil
}

// loadConfig reads the configuration from file, or the first default
// configuration file found when file is empty.
func loadConfig(file string, top *flag.FlagSet) (Config, error) {
	d := defaultConfig()
	v := viper.New()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("market_dir", d.MarketDir)
	v.SetDefault("user", d.User)
	v.SetDefault("max_stars", 0)
	v.SetDefault("raw", false)
	v.SetDefault("verbose", false)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if file == "" {
		file = findConfig()
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cannot read configuration %q: %w", file, err)
		}
	}
	if top != nil {
		top.Visit(func(f *flag.Flag) {
			if key, ok := flagKeys[f.Name]; ok {
				v.Set(key, f.Value.String())
			}
		})
	}

	c := Config{
		DataDir:   v.GetString("data_dir"),
		MarketDir: v.GetString("market_dir"),
		User:      v.GetString("user"),
		MaxStars:  v.GetInt("max_stars"),
		Raw:       v.GetBool("raw"),
		Verbose:   v.GetBool("verbose"),
	}
	if c.MaxStars < 0 {
		return Config{}, fmt.Errorf("max_stars must not be negative, got %d", c.MaxStars)
	}
	return c, nil
}

// findConfig returns the first existing default configuration file, or "".
func findConfig() string {
	candidates := []string{"pst.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".pst.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func setupLogging(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

// openMarket decodes the market from the configured folder.
func openMarket() (*stocks.Market, error) {
	return stocks.DecodeMarket(config.MarketDir)
}

// openStore opens the configured user store, priced by the configured market.
func openStore() (*stocks.Store, *stocks.Market, error) {
	market, err := openMarket()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load market: %w", err)
	}
	store, err := stocks.NewStore(config.DataDir, config.User, market)
	if err != nil {
		return nil, nil, err
	}
	return store, market, nil
}

// loadPortfolio loads the named portfolio from the configured store.
func loadPortfolio(name string) (*stocks.Store, stocks.Portfolio, error) {
	store, _, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(name)
	if err != nil {
		return nil, nil, err
	}
	return store, p, nil
}

// parseDay parses a date flag, an empty value meaning today.
func parseDay(s string) (date.Date, error) {
	if strings.TrimSpace(s) == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}

// usageError reports a misuse of a command.
func usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// failure reports a failed command.
func failure(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// printMarkdown prints a markdown document, styled for the terminal unless
// raw output was requested.
func printMarkdown(doc string) {
	if config.Raw {
		fmt.Fprint(stdout, doc)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		log.Debug().Err(err).Msg("cannot create markdown renderer")
		fmt.Fprint(stdout, doc)
		return
	}
	out, err := r.Render(doc)
	if err != nil {
		log.Debug().Err(err).Msg("cannot render markdown")
		fmt.Fprint(stdout, doc)
		return
	}
	fmt.Fprint(stdout, out)
}
