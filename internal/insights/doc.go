// Package insights produces the narrative findings attached to a report.
//
// Generation returns a tagged Result: LLMGenerated when a model produced a
// parseable answer, RuleBased otherwise. Translate maps either variant to
// the same []domain.Insight so callers never branch on the path taken.
// Model failures are logged and absorbed; Generate never returns an error.
package insights
