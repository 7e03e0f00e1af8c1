package domain

import "time"

const (
	DefaultSiteName     = "Fairy Style"
	DefaultPrimaryColor = "#cd0269"
)

// Settings is the single site-wide settings record.
type Settings struct {
	SiteName     string
	PrimaryColor string
	UpdatedAt    time.Time
}
