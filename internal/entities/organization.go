package entities

import "time"

// Organization anchors one installed GitHub App instance.
type Organization struct {
	ID             string
	InstallationID int64
	GitHubID       int64
	Name           string
	CreatedAt      time.Time
}
