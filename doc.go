// Package stocks values stock portfolios from daily close prices.
//
// A PriceSeries holds the closes of one stock, a Position holds the ledger of
// trades of one stock, and a Portfolio is a named set of positions that can
// be valued, costed and charted on any date. Days without quote, such as
// week-ends, are valued at the last known close.
//
// Portfolios come in three kinds:
//   - Inflexible portfolios are frozen at creation, typically from an upload.
//   - Flexible portfolios accept trades at any time.
//   - Strategic portfolios also run DollarCostAveraging strategies, which
//     invest a fixed amount across weighted stocks every few days.
//
// Every mutation is validated as a whole: the number of shares held can never
// be negative at any date, and a rejected mutation leaves the portfolio
// untouched.
//
// Market data is stored as JSONL files (see DecodeMarket) and portfolios as
// one JSON file each, per user (see Store).
package stocks
