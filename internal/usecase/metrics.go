package usecase

import "github.com/riskibarqy/tennis-league/internal/domain/league"

// MetricsRecorder receives business counters from use cases.
type MetricsRecorder interface {
	StatusReconciled(from, to league.Status, outcome string)
	InterestRegistered(leagueID string)
}

type nopMetrics struct{}

func (nopMetrics) StatusReconciled(league.Status, league.Status, string) {}

func (nopMetrics) InterestRegistered(string) {}
