package league

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a league. Values outside the known set
// are carried verbatim so legacy documents keep their stored state.
type Status string

const (
	StatusRegistrationOpen Status = "registration_open"
	StatusComingSoon       Status = "coming_soon"
	StatusActive           Status = "active"
	StatusCompleted        Status = "completed"
	StatusArchived         Status = "archived"
	StatusInactive         Status = "inactive"
)

var knownStatuses = []Status{
	StatusRegistrationOpen,
	StatusComingSoon,
	StatusActive,
	StatusCompleted,
	StatusArchived,
	StatusInactive,
}

func KnownStatuses() []Status {
	out := make([]Status, len(knownStatuses))
	copy(out, knownStatuses)
	return out
}

func (s Status) IsKnown() bool {
	for _, known := range knownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts only known statuses. Reads never go through it.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsKnown() {
		return "", fmt.Errorf("unknown league status %q", raw)
	}
	return status, nil
}

// AcceptsInterest reports whether players may still sign up for updates.
func (s Status) AcceptsInterest() bool {
	return s == StatusComingSoon || s == StatusRegistrationOpen
}

// DeriveEffectiveStatus returns the status a league should present at now,
// based on its stored status and season dates. Stored statuses other than
// registration_open and active are returned unchanged.
func DeriveEffectiveStatus(l League, now time.Time) Status {
	cfg := l.SeasonConfig

	switch l.Status {
	case StatusRegistrationOpen:
		if cfg.RegistrationStart != nil && now.Before(*cfg.RegistrationStart) {
			return StatusComingSoon
		}
		if cfg.RegistrationEnd != nil && now.After(*cfg.RegistrationEnd) {
			if cfg.EndDate != nil && now.After(*cfg.EndDate) {
				return StatusCompleted
			}
			return StatusActive
		}
		return StatusRegistrationOpen
	case StatusActive:
		if cfg.EndDate != nil && now.After(*cfg.EndDate) {
			return StatusCompleted
		}
		return StatusActive
	default:
		return l.Status
	}
}

func (l League) EffectiveStatus(now time.Time) Status {
	return DeriveEffectiveStatus(l, now)
}

// ApplyEffectiveStatuses returns copies of leagues with Status replaced by the
// effective status at now. Order and length are preserved.
func ApplyEffectiveStatuses(leagues []League, now time.Time) []League {
	out := make([]League, len(leagues))
	for i, l := range leagues {
		l.Status = DeriveEffectiveStatus(l, now)
		out[i] = l
	}
	return out
}
