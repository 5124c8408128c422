// Package report assembles report snapshots.
//
// Generate fetches account, campaign and adset insights concurrently, runs
// the funnel engine, compares performance with the account's profitability
// profile, attaches generated insights and persists the immutable snapshot.
// Ad-platform failures propagate as the meta package's typed errors so the
// HTTP layer can ask the user to reconnect or retry.
package report
