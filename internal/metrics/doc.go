// Package metrics holds the pure advertising formulas used across reports:
// efficiency ratios, funnel rates, profitability targets and en-US display
// formatting.
//
// Every function is side-effect free and total. Zero denominators, NaN and
// infinities collapse to 0 so partial platform data never fails a report.
// Formatting is display-only; comparisons always use the raw values.
package metrics
