package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/stocks/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog/log"
)

// argPredictors predicts the positional arguments of commands.
var argPredictors = map[string]complete.Predictor{
	"create":      predict.Something,
	"delete":      complete.PredictFunc(portfolioNames),
	"buy":         complete.PredictFunc(portfolioNames),
	"sell":        complete.PredictFunc(portfolioNames),
	"value":       complete.PredictFunc(portfolioNames),
	"costbasis":   complete.PredictFunc(portfolioNames),
	"composition": complete.PredictFunc(portfolioNames),
	"performance": complete.PredictFunc(portfolioNames),
	"strategy":    complete.PredictFunc(portfolioNames),
	"quote":       complete.PredictFunc(tickers),
	"declare":     predict.Something,
	"topic":       complete.PredictFunc(topicNames),
}

// flagPredictors predicts flag values, by command then flag name.
var flagPredictors = map[string]map[string]complete.Predictor{
	"create": {
		"kind":   predict.Set{"inflexible", "flexible", "strategic"},
		"upload": predict.Files("*.csv"),
	},
}

// Completion returns the shell completion of pst, whose global flags are
// defined in top.
func Completion(top *flag.FlagSet) *complete.Command {
	c := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictFlags(top, map[string]complete.Predictor{"config": predict.Files("*.yaml")}),
	}
	for _, sc := range Commands {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		c.Sub[sc.Name()] = &complete.Command{
			Flags: predictFlags(fs, flagPredictors[sc.Name()]),
			Args:  argPredictors[sc.Name()],
		}
	}
	return c
}

// predictFlags returns the predictor of each flag of fs. Boolean flags take
// no value, the others any value unless known is more specific.
func predictFlags(fs *flag.FlagSet, known map[string]complete.Predictor) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := known[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// completionConfig returns the configuration available while completing,
// before the command line is parsed.
func completionConfig() Config {
	c, err := loadConfig(*configFile, nil)
	if err != nil {
		log.Debug().Err(err).Msg("cannot load configuration for completion")
		return defaultConfig()
	}
	return c
}

func portfolioNames(prefix string) []string {
	config = completionConfig()
	store, _, err := openStore()
	if err != nil {
		return nil
	}
	list, err := store.List()
	if err != nil {
		return nil
	}
	var names []string
	for _, s := range list {
		if strings.HasPrefix(s.Name, prefix) {
			names = append(names, s.Name)
		}
	}
	return names
}

func tickers(prefix string) []string {
	config = completionConfig()
	market, err := openMarket()
	if err != nil {
		return nil
	}
	var names []string
	for _, t := range market.Tickers() {
		if strings.HasPrefix(t, prefix) {
			names = append(names, t)
		}
	}
	return names
}

func topicNames(prefix string) []string {
	all, err := docs.GetAllTopics()
	if err != nil {
		return nil
	}
	var names []string
	for _, t := range all {
		if strings.HasPrefix(t, prefix) {
			names = append(names, t)
		}
	}
	return names
}
