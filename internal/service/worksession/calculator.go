package worksession

import (
	"time"

	"github.com/chronotrack/chronotrack-backend-go/internal/domain/continuation"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/schedule"
	"github.com/chronotrack/chronotrack-backend-go/internal/domain/worksession"
)

// OvertimePolicy names the algorithm that recommends overtime during
// resolution. The source system carried both with unclear precedence, so they
// are explicit and selectable per deployment.
type OvertimePolicy string

const (
	// PolicyThreshold buckets worked minutes against the fixed tier table.
	PolicyThreshold OvertimePolicy = "threshold"
	// PolicyContinuation derives overtime from how far past the scheduled
	// end the latest continuation point lies.
	PolicyContinuation OvertimePolicy = "continuation"
)

func (p OvertimePolicy) Valid() bool {
	return p == PolicyThreshold || p == PolicyContinuation
}

// CalcConfig carries the tiering and lunch rules so they stay testable in
// isolation and swappable per deployment.
type CalcConfig struct {
	LunchBreakMinutes   int
	OvertimeTierMinutes int
	OvertimeCapMinutes  int
	OvertimePolicy      OvertimePolicy
}

func DefaultCalcConfig() CalcConfig {
	return CalcConfig{
		LunchBreakMinutes:   30,
		OvertimeTierMinutes: 60,
		OvertimeCapMinutes:  480,
		OvertimePolicy:      PolicyThreshold,
	}
}

// DerivedTotals are the values the calculator computes from a session
// snapshot and a schedule. The executor persists them; the calculator never
// writes anything.
type DerivedTotals struct {
	ElapsedMinutes     int
	BreakMinutes       int
	WorkedMinutes      int
	LunchBreakDeducted bool
	FinalWorkedMinutes int
	OvertimeMinutes    int
}

// Calculator derives worked time, lunch deduction and overtime tier from a
// session snapshot. All methods are pure functions over their inputs.
type Calculator struct {
	cfg CalcConfig
}

func NewCalculator(cfg CalcConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() CalcConfig {
	return c.cfg
}

// Calculate derives the totals for a session as of the given instant.
func (c *Calculator) Calculate(s *worksession.WorkSession, sched schedule.WorkSchedule, asOf time.Time) DerivedTotals {
	elapsed := int(asOf.Sub(s.DayStartTime).Minutes())
	if elapsed < 0 {
		// Clock skew guard: never report negative elapsed time.
		elapsed = 0
	}

	breakMins := 0
	for _, stop := range s.TemporaryStops {
		breakMins += stop.Minutes(asOf)
	}
	if breakMins > elapsed {
		breakMins = elapsed
	}

	worked := elapsed - breakMins

	totals := DerivedTotals{
		ElapsedMinutes: elapsed,
		BreakMinutes:   breakMins,
		WorkedMinutes:  worked,
	}

	totals.FinalWorkedMinutes = worked
	if sched.LunchEligible() && worked >= sched.Minutes() {
		totals.LunchBreakDeducted = true
		totals.FinalWorkedMinutes = worked - c.cfg.LunchBreakMinutes
		if totals.FinalWorkedMinutes < 0 {
			totals.FinalWorkedMinutes = 0
		}
	}

	totals.OvertimeMinutes = c.OvertimeTier(totals.FinalWorkedMinutes - sched.Minutes())
	return totals
}

// OvertimeTier quantizes excess minutes beyond the schedule into fixed
// tiers. An excess inside the first tier earns nothing; past that, the tier
// boundary just crossed is granted in full, capped at the configured maximum.
// Worked 571..630 minutes on an 8h schedule grants one hour, 631..690 two.
func (c *Calculator) OvertimeTier(excessMinutes int) int {
	if excessMinutes <= c.cfg.OvertimeTierMinutes {
		return 0
	}
	tiersStarted := (excessMinutes + c.cfg.OvertimeTierMinutes - 1) / c.cfg.OvertimeTierMinutes
	overtime := (tiersStarted - 1) * c.cfg.OvertimeTierMinutes
	if overtime > c.cfg.OvertimeCapMinutes {
		overtime = c.cfg.OvertimeCapMinutes
	}
	return overtime
}

// RecommendOvertime proposes the overtime attributed by the resolution
// workflow, under the configured policy.
func (c *Calculator) RecommendOvertime(totals DerivedTotals, sched schedule.WorkSchedule, dayStart time.Time, points []continuation.Point) int {
	switch c.cfg.OvertimePolicy {
	case PolicyContinuation:
		latest := continuation.Latest(points)
		if latest == nil {
			return 0
		}
		past := int(latest.Sub(sched.ExpectedEnd(dayStart)).Minutes())
		return c.OvertimeTier(past)
	default:
		return totals.OvertimeMinutes
	}
}

// PreviousDay reports whether the session belongs to a calendar day before
// asOf. Such a session only accepts resolution commands.
func PreviousDay(s *worksession.WorkSession, asOf time.Time) bool {
	dayStart := s.DayStartTime.In(asOf.Location())
	y1, m1, d1 := dayStart.Date()
	y2, m2, d2 := asOf.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}
