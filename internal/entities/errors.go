// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOrganizationNotFound signals a missing organization.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrReportNotFound signals a missing weekly report.
	ErrReportNotFound = errors.New("report not found")
	// ErrReportInProgress signals that another caller holds the computation claim for a report.
	ErrReportInProgress = errors.New("report computation in progress")
	// ErrDuplicateInstallation signals a re-delivered installation event.
	ErrDuplicateInstallation = errors.New("duplicate installation")
	// ErrDuplicatePullRequest signals a re-delivered pull request event.
	ErrDuplicatePullRequest = errors.New("duplicate pull request")
	// ErrUnknownOrganization signals a pull request event for an account without installation record.
	ErrUnknownOrganization = errors.New("unknown organization")
	// ErrUpstream signals a failed call to GitHub, Harvest or Slack.
	ErrUpstream = errors.New("upstream error")
	// ErrPersistence signals an unavailable store or a failed statement.
	ErrPersistence = errors.New("persistence error")
)

// IsNonFatalEvent reports whether err is an expected outcome of at-least-once webhook delivery.
func IsNonFatalEvent(err error) bool {
	return errors.Is(err, ErrDuplicateInstallation) ||
		errors.Is(err, ErrDuplicatePullRequest) ||
		errors.Is(err, ErrUnknownOrganization)
}
