// Package funnel turns account-level insight totals into the purchase
// funnel, its stage conversion rates, a benchmark classification for each
// rate stage and a severity-ranked list of optimization opportunities.
//
// The engine holds no state beyond its read-only benchmark table. Given the
// same totals, table and industry, Analyze always returns identical output.
package funnel
