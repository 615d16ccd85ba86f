package analytics

import (
	"math"
	"sync"
	"time"

	"github.com/pitchside/matchtrack/internal/domains/entities"
)

// Scoring weights and windows for the derived statistics. Momentum decays
// linearly across the trailing window; possession counts a goal as three
// touches worth of initiative (the event itself plus the bonus).
const (
	momentumWindow  = 5 * time.Minute
	timelineSegment = 5 * time.Minute

	momentumGoalWeight    = 3.0
	momentumPenaltyWeight = 1.0
	momentumCardWeight    = -2.0

	possessionGoalBonus = 2.0
)

const (
	LeaderUs      = "us"
	LeaderThem    = "them"
	LeaderNeutral = "neutral"
)

type TeamCounts struct {
	Goals       int `json:"goals"`
	Penalties   int `json:"penalties"`
	YellowCards int `json:"yellowCards"`
	RedCards    int `json:"redCards"`
}

type BasicStats struct {
	My              TeamCounts `json:"my"`
	Their           TeamCounts `json:"their"`
	TotalEvents     int        `json:"totalEvents"`
	EventsPerMinute float64    `json:"eventsPerMinute"`
}

type Momentum struct {
	My           float64 `json:"my"`
	Their        float64 `json:"their"`
	Leader       string  `json:"leader"`
	Differential float64 `json:"differential"`
}

type TeamEfficiency struct {
	PKGoals         int     `json:"pkGoals"`
	PenaltyAttempts int     `json:"penaltyAttempts"`
	PKConversion    float64 `json:"pkConversion"`
	GoalsPerPenalty float64 `json:"goalsPerPenalty"`
}

type Efficiency struct {
	My    TeamEfficiency `json:"my"`
	Their TeamEfficiency `json:"their"`
}

type Possession struct {
	My    float64 `json:"my"`
	Their float64 `json:"their"`
}

type TimelineSegment struct {
	Start      time.Duration `json:"start"`
	End        time.Duration `json:"end"`
	MyGoals    int           `json:"myGoals"`
	TheirGoals int           `json:"theirGoals"`
	Events     int           `json:"events"`
	Momentum   string        `json:"momentum"`
}

// GameStats bundles every per-match derived statistic.
type GameStats struct {
	MatchId    string            `json:"matchId"`
	Basic      BasicStats        `json:"basic"`
	Momentum   Momentum          `json:"momentum"`
	Efficiency Efficiency        `json:"efficiency"`
	Possession Possession        `json:"possession"`
	Timeline   []TimelineSegment `json:"timeline"`
}

// Engine computes derived statistics over match data. Results for
// completed matches are memoized by match id; the owner must call
// Invalidate whenever it edits a history entry. Active-match stats never
// touch the cache since the event list is still moving.
type Engine struct {
	mu    sync.Mutex
	cache map[string]GameStats
}

func NewEngine() *Engine {
	return &Engine{cache: make(map[string]GameStats)}
}

// MatchStats returns the full stat bundle for a completed match, memoized.
func (e *Engine) MatchStats(m entities.Match) GameStats {
	e.mu.Lock()
	if stats, ok := e.cache[m.Id]; ok {
		e.mu.Unlock()
		return stats
	}
	e.mu.Unlock()

	stats := ComputeGameStats(m)
	e.mu.Lock()
	e.cache[m.Id] = stats
	e.mu.Unlock()
	return stats
}

// ActiveStats computes stats for the in-progress match, with the current
// elapsed time standing in for the final time. Never cached.
func (e *Engine) ActiveStats(m entities.ActiveMatch, elapsed time.Duration) GameStats {
	return ComputeGameStats(entities.Match{
		Id:            m.Id,
		OpponentName:  m.OpponentName,
		MyScore:       m.MyScore,
		OpponentScore: m.OpponentScore,
		Events:        m.Events,
		FinalTime:     elapsed,
	})
}

// Invalidate drops the cached stats for a match, if any.
func (e *Engine) Invalidate(matchId string) {
	e.mu.Lock()
	delete(e.cache, matchId)
	e.mu.Unlock()
}

// ComputeGameStats derives the full stat bundle from a match's event list.
// Pure; the match is never mutated.
func ComputeGameStats(m entities.Match) GameStats {
	return GameStats{
		MatchId:    m.Id,
		Basic:      CalculateBasicStats(m),
		Momentum:   CalculateMomentum(m),
		Efficiency: CalculateEfficiency(m),
		Possession: CalculatePossession(m),
		Timeline:   CalculateTimelineStats(m),
	}
}

func CalculateBasicStats(m entities.Match) BasicStats {
	stats := BasicStats{TotalEvents: len(m.Events)}
	for _, e := range m.Events {
		counts := &stats.My
		if e.Team == entities.TeamThem {
			counts = &stats.Their
		}
		switch e.Type {
		case entities.EventGoal:
			counts.Goals++
		case entities.EventPenalty:
			counts.Penalties++
		case entities.EventYellowCard:
			counts.YellowCards++
		case entities.EventRedCard:
			counts.RedCards++
		}
	}
	if minutes := m.FinalTime.Minutes(); minutes > 0 && len(m.Events) > 0 {
		stats.EventsPerMinute = float64(len(m.Events)) / minutes
	}
	return stats
}

// CalculateMomentum weighs events inside the trailing window, scaled down
// linearly with age, and reports which side holds the initiative.
func CalculateMomentum(m entities.Match) Momentum {
	momentum := Momentum{Leader: LeaderNeutral}
	for _, e := range m.Events {
		age := m.FinalTime - e.GameTime
		if age < 0 {
			age = 0
		}
		if age >= momentumWindow {
			continue
		}

		var weight float64
		switch {
		case e.Type == entities.EventGoal:
			weight = momentumGoalWeight
		case e.Type == entities.EventPenalty:
			weight = momentumPenaltyWeight
		case e.Type.IsCard():
			weight = momentumCardWeight
		default:
			continue
		}
		weight *= 1 - float64(age)/float64(momentumWindow)

		if e.Team == entities.TeamUs {
			momentum.My += weight
		} else {
			momentum.Their += weight
		}
	}
	momentum.Differential = momentum.My - momentum.Their
	if momentum.My > momentum.Their {
		momentum.Leader = LeaderUs
	} else if momentum.Their > momentum.My {
		momentum.Leader = LeaderThem
	}
	return momentum
}

// CalculateEfficiency reports penalty-kick conversion per team: goals
// flagged as PKs over penalty-type events.
func CalculateEfficiency(m entities.Match) Efficiency {
	var eff Efficiency
	for _, e := range m.Events {
		team := &eff.My
		if e.Team == entities.TeamThem {
			team = &eff.Their
		}
		if e.Type == entities.EventPenalty {
			team.PenaltyAttempts++
		}
		if e.Type == entities.EventGoal && e.Meta.IsPK {
			team.PKGoals++
		}
	}
	finishTeam := func(team *TeamEfficiency, goals int) {
		if team.PenaltyAttempts == 0 {
			return
		}
		team.PKConversion = float64(team.PKGoals) / float64(team.PenaltyAttempts) * 100
		team.GoalsPerPenalty = float64(goals) / float64(team.PenaltyAttempts)
	}
	mine, theirs := entities.CountGoals(m.Events)
	finishTeam(&eff.My, mine)
	finishTeam(&eff.Their, theirs)
	return eff
}

// CalculatePossession is a heuristic share of initiative, not measured
// possession: each event counts once, goals count extra.
func CalculatePossession(m entities.Match) Possession {
	var myWeight, theirWeight float64
	for _, e := range m.Events {
		weight := 1.0
		if e.Type == entities.EventGoal {
			weight += possessionGoalBonus
		}
		if e.Team == entities.TeamUs {
			myWeight += weight
		} else {
			theirWeight += weight
		}
	}
	total := myWeight + theirWeight
	if total == 0 {
		return Possession{My: 50, Their: 50}
	}
	my := myWeight / total * 100
	return Possession{My: my, Their: 100 - my}
}

// CalculateTimelineStats buckets events into fixed five-minute segments of
// game time. Events stamped past the final time land in the last segment.
func CalculateTimelineStats(m entities.Match) []TimelineSegment {
	count := int(math.Ceil(float64(m.FinalTime) / float64(timelineSegment)))
	if count == 0 {
		return nil
	}
	segments := make([]TimelineSegment, count)
	for i := range segments {
		segments[i].Start = time.Duration(i) * timelineSegment
		segments[i].End = segments[i].Start + timelineSegment
	}
	for _, e := range m.Events {
		idx := int(e.GameTime / timelineSegment)
		if idx >= count {
			idx = count - 1
		}
		if idx < 0 {
			idx = 0
		}
		seg := &segments[idx]
		seg.Events++
		if e.Type == entities.EventGoal {
			if e.Team == entities.TeamUs {
				seg.MyGoals++
			} else {
				seg.TheirGoals++
			}
		}
	}
	for i := range segments {
		switch {
		case segments[i].MyGoals > segments[i].TheirGoals:
			segments[i].Momentum = LeaderUs
		case segments[i].TheirGoals > segments[i].MyGoals:
			segments[i].Momentum = LeaderThem
		default:
			segments[i].Momentum = LeaderNeutral
		}
	}
	return segments
}
