package stocks

import "errors"

var (
	// ErrInvalidMutation reports a change that would break a portfolio invariant
	// (negative quantity, malformed upload, inverted dates, bad weights). The
	// portfolio is left untouched.
	ErrInvalidMutation = errors.New("invalid mutation")
	// ErrNoPriceData reports a transaction requested on a date without a quote.
	ErrNoPriceData = errors.New("no price data")
	// ErrUnknownTicker reports a ticker the price feed does not know.
	ErrUnknownTicker = errors.New("unknown ticker")
	// ErrPortfolioNotFound reports a missing portfolio in a Store.
	ErrPortfolioNotFound = errors.New("portfolio not found")
	// ErrPortfolioExists reports a name already used by another portfolio of the same owner.
	ErrPortfolioExists = errors.New("portfolio already exists")
)
