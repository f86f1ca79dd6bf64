package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EntriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "competition_entries_total", Help: "Total competition enrollments"},
	)
	SubmissionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "competition_submissions_total", Help: "Total submissions received"},
	)
	WinnersSelectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "competition_winners_selected_total", Help: "Total winners selected"},
	)
	AchievementsUnlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "achievements_unlocked_total", Help: "Total achievements unlocked"},
	)
	CompetitionsAwaitingWinner = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "competitions_awaiting_winner", Help: "Competitions past deadline with no winner"},
	)
)

func Register() {
	prometheus.MustRegister(
		EntriesTotal,
		SubmissionsTotal,
		WinnersSelectedTotal,
		AchievementsUnlockedTotal,
		CompetitionsAwaitingWinner,
	)
}
