package domain

import (
	"strings"
	"time"
)

// Activity is a single fitness activity fetched from Strava.
// Immutable once fetched.
type Activity struct {
	// ID is the provider-assigned activity identifier.
	ID int64 `json:"id"`
	// Name is the athlete-supplied activity title.
	Name string `json:"name"`
	// Type is the activity type (Run, Ride, WeightTraining, ...).
	Type string `json:"type"`
	// StartDate is when the activity started.
	StartDate time.Time `json:"start_date"`
	// MovingTime is the moving duration in seconds.
	MovingTime int `json:"moving_time"`
	// Distance is the distance covered in metres.
	Distance float64 `json:"distance"`
}

// MovingHours returns the activity's moving duration in hours.
func (a *Activity) MovingHours() float64 {
	return float64(a.MovingTime) / 3600.0
}

// WeekStart returns the Monday of the ISO week containing the activity's start.
func (a *Activity) WeekStart() time.Time {
	return WeekStart(a.StartDate)
}

// excludedTypes are activity types that do not count towards weekly moving
// time. Strength/resistance sessions are tracked but not aggregated.
var excludedTypes = map[string]bool{
	"weighttraining": true,
	"workout":        true,
}

// IsExcluded reports whether the activity type is excluded from aggregation.
// The match is case-insensitive.
func (a *Activity) IsExcluded() bool {
	return excludedTypes[strings.ToLower(a.Type)]
}

// WeekStart returns the Monday of the ISO week containing t, at 00:00 UTC.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	// time.Weekday has Sunday == 0; shift so Monday == 0
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// WeeklyBucket accumulates moving time for one ISO week.
type WeeklyBucket struct {
	// Week is the Monday of the ISO week, at 00:00 UTC.
	Week time.Time
	// Hours is the cumulative moving duration in hours.
	Hours float64
	// Activities is the number of activities contributing to the bucket.
	Activities int
}
