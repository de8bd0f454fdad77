// Package portfolio records personal trades and derives the portfolio state
// from them.
//
// The core functionalities include:
//   - Ledger Management: an ordered, user editable list of buy and sell
//     trades, persisted in full in a named slot of a Store after every change.
//   - Accounting: a stateless engine (ComputePositions) folding the ledger
//     into positions with a weighted average cost basis and realized
//     profit and loss. A Book gives the same result incrementally.
//   - Watchlist: the extra tickers followed by the user.
//
// Amounts are exact decimals (Money and Quantity) so that the accounting is
// reproducible. Market data lives in the quote package, storage backends in
// the store package.
package portfolio
