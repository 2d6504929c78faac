package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
)

// newTestApp points the configuration to a fresh market and store, and
// restores it at the end of the test.
func newTestApp(t *testing.T, series ...*stocks.PriceSeries) {
	t.Helper()
	saved, out, errOut := config, stdout, stderr
	t.Cleanup(func() { config, stdout, stderr = saved, out, errOut })

	dir := t.TempDir()
	config = Config{
		DataDir:   filepath.Join(dir, "portfolios"),
		MarketDir: filepath.Join(dir, "market"),
		User:      "alice",
		Raw:       true,
	}
	m := stocks.NewMarket()
	for _, s := range series {
		if err := m.Add(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := stocks.EncodeMarket(config.MarketDir, m); err != nil {
		t.Fatalf("EncodeMarket() unexpected error: %v", err)
	}
}

// run executes c with args and returns its status and outputs.
func run(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("%s: cannot parse %q: %v", c.Name(), args, err)
	}
	status := c.Execute(context.Background(), fs)
	return status, out.String(), errOut.String()
}

// mustRun is like run but fails the test unless the command succeeds.
func mustRun(t *testing.T, c subcommands.Command, args ...string) string {
	t.Helper()
	status, out, errOut := run(t, c, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("pst %s %s = %v: %s", c.Name(), strings.Join(args, " "), status, errOut)
	}
	return out
}

// weekdays quotes ticker at price every weekday from 'from' to 'to'.
func weekdays(ticker string, from, to date.Date, price float64) *stocks.PriceSeries {
	s := stocks.NewPriceSeries(ticker, ticker+" Corp.", "NYSE", date.Date{})
	for on := from; !on.After(to); on = on.Add(1) {
		if !on.IsWeekend() {
			s.Append(on, price)
		}
	}
	return s
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pst.yaml")
	content := "data_dir: /srv/pst\nuser: carol\nmax_stars: 20\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PST_USER", "bob")
	t.Setenv("PST_MARKET_DIR", "/srv/market")

	top := flag.NewFlagSet("pst", flag.ContinueOnError)
	top.Bool("v", false, "")
	top.String("data", "", "")
	if err := top.Parse([]string{"-v"}); err != nil {
		t.Fatal(err)
	}

	got, err := loadConfig(file, top)
	if err != nil {
		t.Fatalf("loadConfig() unexpected error: %v", err)
	}
	want := Config{
		DataDir:   "/srv/pst",    // file
		MarketDir: "/srv/market", // environment
		User:      "bob",         // environment over file
		MaxStars:  20,
		Verbose:   true, // flag
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loadConfig() mismatch (-want +got):\n%s", diff)
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.yaml"), nil); err == nil {
		t.Errorf("loadConfig() of a missing file expected an error")
	}
}

func TestWeightsFlag(t *testing.T) {
	w := weightsFlag{}
	for _, v := range []string{"AAA=60", "BBB=30, CCC=10"} {
		if err := w.Set(v); err != nil {
			t.Fatalf("Set(%q) unexpected error: %v", v, err)
		}
	}
	if diff := cmp.Diff(weightsFlag{"AAA": 60, "BBB": 30, "CCC": 10}, w); diff != "" {
		t.Errorf("weights mismatch (-want +got):\n%s", diff)
	}
	if got := w.String(); got != "AAA=60,BBB=30,CCC=10" {
		t.Errorf("String() = %q", got)
	}
	for _, bad := range []string{"AAA", "=10", "BBB=ten", "AAA=5"} {
		if err := w.Set(bad); err == nil {
			t.Errorf("Set(%q) expected an error", bad)
		}
	}
}

func TestCommands_ManualPortfolio(t *testing.T) {
	newTestApp(t)

	mustRun(t, &declareCmd{}, "-name", "Alphabet Inc.", "-exchange", "NASDAQ", "-ipo", "2004-08-19", "GOOG")
	if status, _, _ := run(t, &declareCmd{}, "-name", "Alphabet Inc.", "GOOG"); status != subcommands.ExitFailure {
		t.Errorf("declaring GOOG twice = %v, want failure", status)
	}
	for _, q := range []struct{ on, close string }{
		{"2020-01-10", "100"},
		{"2022-10-27", "92.6"},
		{"2022-10-28", "96.58"},
	} {
		mustRun(t, &quoteCmd{}, "-d", q.on, "-set", q.close, "GOOG")
	}
	if status, _, _ := run(t, &quoteCmd{}, "-d", "2022-10-29", "-set", "97", "GOOG"); status != subcommands.ExitUsageError {
		t.Errorf("quoting a Saturday = %v, want usage error", status)
	}
	if out := mustRun(t, &quoteCmd{}, "-d", "2022-10-29", "GOOG"); !strings.Contains(out, "$96.58 (carried forward)") {
		t.Errorf("quote output:\n%s", out)
	}

	mustRun(t, &createCmd{}, "main")
	mustRun(t, &tradeCmd{}, "-d", "2020-01-10", "-c", "10", "main", "GOOG", "10")

	if out := mustRun(t, &valueCmd{}, "-d", "2022-10-27", "main"); !strings.Contains(out, "$926.00") {
		t.Errorf("value output does not show $926.00:\n%s", out)
	}
	if out := mustRun(t, &valueCmd{costBasis: true}, "-d", "2022-10-27", "main"); out != "$1,010.00\n" {
		t.Errorf("costbasis output = %q, want $1,010.00", out)
	}

	testCases := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{"saturday", []string{"-d", "2022-10-29", "main", "GOOG", "1"}, subcommands.ExitFailure},
		{"oversold", []string{"-d", "2022-10-28", "main", "GOOG", "11"}, subcommands.ExitFailure},
		{"unknown ticker", []string{"-d", "2022-10-28", "main", "MSFT", "1"}, subcommands.ExitFailure},
		{"unknown portfolio", []string{"-d", "2022-10-28", "other", "GOOG", "1"}, subcommands.ExitFailure},
		{"negative quantity", []string{"-d", "2022-10-28", "main", "GOOG", "-1"}, subcommands.ExitUsageError},
		{"missing argument", []string{"main", "GOOG"}, subcommands.ExitUsageError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if status, _, _ := run(t, &tradeCmd{sell: true}, tc.args...); status != tc.want {
				t.Errorf("sell %v = %v, want %v", tc.args, status, tc.want)
			}
		})
	}

	mustRun(t, &tradeCmd{sell: true}, "-d", "2022-10-28", "-c", "5", "main", "GOOG", "4")
	out := mustRun(t, &compositionCmd{}, "-d", "2022-10-29", "main")
	if !strings.Contains(out, "| GOOG") || !strings.Contains(out, "$96.58") {
		t.Errorf("composition output:\n%s", out)
	}

	if out := mustRun(t, &listCmd{}); !strings.Contains(out, "| main") {
		t.Errorf("list output:\n%s", out)
	}
	mustRun(t, &deleteCmd{}, "main")
	if status, _, _ := run(t, &valueCmd{}, "main"); status != subcommands.ExitFailure {
		t.Errorf("value of a deleted portfolio = %v, want failure", status)
	}
}

func TestCreate_Upload(t *testing.T) {
	goog := stocks.NewPriceSeries("GOOG", "Alphabet Inc.", "NASDAQ", date.Date{}).
		Append(date.New(2020, time.January, 10), 100).
		Append(date.New(2022, time.October, 27), 92.6)
	newTestApp(t, goog)

	csv := filepath.Join(t.TempDir(), "broker.csv")
	if err := os.WriteFile(csv, []byte("ticker,quantity,date,commission\nGOOG,10,2020-01-10,10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, &createCmd{}, "-kind", "inflexible", "-upload", csv, "archive")

	if out := mustRun(t, &valueCmd{costBasis: true}, "-d", "2022-10-27", "archive"); out != "$1,010.00\n" {
		t.Errorf("costbasis output = %q, want $1,010.00", out)
	}
	status, _, errOut := run(t, &tradeCmd{}, "-d", "2022-10-27", "archive", "GOOG", "1")
	if status != subcommands.ExitFailure || !strings.Contains(errOut, "cannot be traded") {
		t.Errorf("trading an inflexible portfolio = %v %q, want failure", status, errOut)
	}

	bad := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(bad, []byte("GOOG,10,2020-01-11\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if status, _, _ := run(t, &createCmd{}, "-upload", bad, "broken"); status != subcommands.ExitFailure {
		t.Errorf("create from an invalid upload = %v, want failure", status)
	}
	if status, _, _ := run(t, &createCmd{}, "-kind", "rigid", "other"); status != subcommands.ExitUsageError {
		t.Errorf("create with an unknown kind = %v, want usage error", status)
	}
}

func TestStrategy_Add(t *testing.T) {
	from, to := date.New(2020, time.January, 1), date.New(2021, time.December, 31)
	newTestApp(t, weekdays("AAA", from, to, 100), weekdays("BBB", from, to, 80))

	mustRun(t, &createCmd{}, "-kind", "strategic", "retirement")
	mustRun(t, &strategyCmd{}, "-add", "dca", "-amount", "2000", "-c", "1",
		"-start", "2020-02-11", "-end", "2021-02-15", "-freq", "50", "-w", "AAA=60", "-w", "BBB=40", "retirement")

	if out := mustRun(t, &valueCmd{costBasis: true}, "-d", "2021-06-01", "retirement"); out != "$16,016.00\n" {
		t.Errorf("costbasis output = %q, want $16,016.00", out)
	}
	if out := mustRun(t, &strategyCmd{}, "retirement"); !strings.Contains(out, "AAA 60%, BBB 40%") {
		t.Errorf("strategy list output:\n%s", out)
	}

	if status, _, _ := run(t, &strategyCmd{}, "-add", "bad", "-amount", "100", "-w", "AAA=50", "retirement"); status != subcommands.ExitUsageError {
		t.Errorf("weights not adding up = %v, want usage error", status)
	}
	mustRun(t, &createCmd{}, "flex")
	if status, _, _ := run(t, &strategyCmd{}, "flex"); status != subcommands.ExitFailure {
		t.Errorf("strategy of a flexible portfolio = %v, want failure", status)
	}
}

func TestPerformance(t *testing.T) {
	newTestApp(t, weekdays("AAA", date.New(2022, time.January, 3), date.New(2022, time.December, 30), 10))
	mustRun(t, &createCmd{}, "main")
	if status, _, _ := run(t, &performanceCmd{}, "main"); status != subcommands.ExitFailure {
		t.Errorf("performance without transaction = %v, want failure", status)
	}
	mustRun(t, &tradeCmd{}, "-d", "2022-03-01", "main", "AAA", "10")

	out := mustRun(t, &performanceCmd{}, "-to", "2022-03-10", "main")
	if !strings.Contains(out, "daily values from") || !strings.Contains(out, "$100.00") {
		t.Errorf("performance output:\n%s", out)
	}
	mustRun(t, &tradeCmd{}, "-d", "2022-06-01", "main", "AAA", "5")
	if out := mustRun(t, &performanceCmd{}, "-from", "2022-03-01", "-to", "2022-12-01", "-graph", "-height", "4", "main"); !strings.Contains(out, "```text") {
		t.Errorf("performance graph output:\n%s", out)
	}
	if status, _, _ := run(t, &performanceCmd{}, "-from", "2022-03-10", "-to", "2022-03-01", "main"); status != subcommands.ExitUsageError {
		t.Errorf("inverted performance range = %v, want usage error", status)
	}
}

func TestTopic(t *testing.T) {
	newTestApp(t)
	if out := mustRun(t, &topicCmd{}); !strings.Contains(out, "pst") {
		t.Errorf("topic output:\n%s", out)
	}
	if status, _, _ := run(t, &topicCmd{}, "no-such-topic"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic = %v, want failure", status)
	}
}

func TestCompletion(t *testing.T) {
	top := flag.NewFlagSet("pst", flag.ContinueOnError)
	top.String("config", "", "")
	top.Bool("v", false, "")
	c := Completion(top)

	for _, sc := range Commands {
		if _, ok := c.Sub[sc.Name()]; !ok {
			t.Errorf("no completion for %s", sc.Name())
		}
	}
	if _, ok := c.Flags["config"]; !ok {
		t.Errorf("no completion for the global -config flag")
	}
	create := c.Sub["create"]
	if got := create.Flags["kind"].Predict("str"); !slices.Contains(got, "strategic") {
		t.Errorf("create -kind completion = %q, want strategic", got)
	}
	if _, ok := c.Sub["performance"].Flags["graph"]; !ok {
		t.Errorf("no completion for performance -graph")
	}
}
