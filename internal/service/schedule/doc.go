// Package schedule manages recurring report deliveries.
//
// A schedule names an ad account, a cadence and a reporting window. RunDue
// generates a fresh report for every schedule whose next run has passed,
// hands it to a Deliverer, logs the outcome and advances the schedule.
package schedule
