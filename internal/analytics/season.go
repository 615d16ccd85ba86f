package analytics

import (
	"sort"

	"github.com/pitchside/matchtrack/internal/domains/entities"
)

const trendWindow = 5

type PlayerStats struct {
	Player          string  `json:"player"`
	GamesPlayed     int     `json:"gamesPlayed"`
	Goals           int     `json:"goals"`
	Penalties       int     `json:"penalties"`
	YellowCards     int     `json:"yellowCards"`
	RedCards        int     `json:"redCards"`
	PKGoals         int     `json:"pkGoals"`
	PenaltyAttempts int     `json:"penaltyAttempts"`
	PKConversion    float64 `json:"pkConversion"`
}

type GameRef struct {
	MatchId      string `json:"matchId"`
	OpponentName string `json:"opponentName"`
	MyScore      int    `json:"myScore"`
	OppScore     int    `json:"oppScore"`
	Differential int    `json:"differential"`
}

// SeasonTrend compares the most recent games against the ones before them.
// Deltas are recent-window value minus previous-window value.
type SeasonTrend struct {
	GoalsPerGameDelta   float64 `json:"goalsPerGameDelta"`
	WinRateDelta        float64 `json:"winRateDelta"`
	CleanSheetRateDelta float64 `json:"cleanSheetRateDelta"`
}

type SeasonStats struct {
	Games        int           `json:"games"`
	Wins         int           `json:"wins"`
	Draws        int           `json:"draws"`
	Losses       int           `json:"losses"`
	GoalsFor     int           `json:"goalsFor"`
	GoalsAgainst int           `json:"goalsAgainst"`
	CleanSheets  int           `json:"cleanSheets"`
	BestGame     *GameRef      `json:"bestGame,omitempty"`
	WorstGame    *GameRef      `json:"worstGame,omitempty"`
	Players      []PlayerStats `json:"players"`
	Trend        *SeasonTrend  `json:"trend,omitempty"`
}

// AnalyzePlayerPerformance aggregates one player's events across a match
// collection. Identity is Meta.Player when set, falling back to the raw
// label.
func AnalyzePlayerPerformance(games []entities.Match, playerName string) PlayerStats {
	stats := PlayerStats{Player: playerName}
	if playerName == "" {
		return stats
	}
	for _, game := range games {
		played := false
		for _, e := range game.Events {
			if e.PlayerName() != playerName {
				continue
			}
			played = true
			accumulatePlayerEvent(&stats, e)
		}
		if played {
			stats.GamesPlayed++
		}
	}
	if stats.PenaltyAttempts > 0 {
		stats.PKConversion = float64(stats.PKGoals) / float64(stats.PenaltyAttempts) * 100
	}
	return stats
}

// AnalyzeSeason aggregates results, totals, per-player stats and a
// recent-form trend over a match collection ordered newest-first.
func AnalyzeSeason(games []entities.Match) SeasonStats {
	stats := SeasonStats{Games: len(games), Players: []PlayerStats{}}
	byPlayer := map[string]*PlayerStats{}

	for i, game := range games {
		switch {
		case game.MyScore > game.OpponentScore:
			stats.Wins++
		case game.MyScore < game.OpponentScore:
			stats.Losses++
		default:
			stats.Draws++
		}
		stats.GoalsFor += game.MyScore
		stats.GoalsAgainst += game.OpponentScore
		if game.OpponentScore == 0 {
			stats.CleanSheets++
		}

		ref := gameRef(games[i])
		if stats.BestGame == nil || ref.Differential > stats.BestGame.Differential {
			best := ref
			stats.BestGame = &best
		}
		if stats.WorstGame == nil || ref.Differential < stats.WorstGame.Differential {
			worst := ref
			stats.WorstGame = &worst
		}

		seen := map[string]bool{}
		for _, e := range game.Events {
			name := e.PlayerName()
			if name == "" || e.Team != entities.TeamUs {
				continue
			}
			player := byPlayer[name]
			if player == nil {
				player = &PlayerStats{Player: name}
				byPlayer[name] = player
			}
			accumulatePlayerEvent(player, e)
			if !seen[name] {
				player.GamesPlayed++
				seen[name] = true
			}
		}
	}

	for _, player := range byPlayer {
		if player.PenaltyAttempts > 0 {
			player.PKConversion = float64(player.PKGoals) / float64(player.PenaltyAttempts) * 100
		}
		stats.Players = append(stats.Players, *player)
	}
	sort.Slice(stats.Players, func(i, j int) bool {
		if stats.Players[i].Goals != stats.Players[j].Goals {
			return stats.Players[i].Goals > stats.Players[j].Goals
		}
		return stats.Players[i].Player < stats.Players[j].Player
	})

	if len(games) >= 2 {
		stats.Trend = seasonTrend(games)
	}
	return stats
}

func accumulatePlayerEvent(stats *PlayerStats, e entities.Event) {
	switch e.Type {
	case entities.EventGoal:
		stats.Goals++
		if e.Meta.IsPK {
			stats.PKGoals++
		}
	case entities.EventPenalty:
		stats.Penalties++
		stats.PenaltyAttempts++
	case entities.EventYellowCard:
		stats.YellowCards++
	case entities.EventRedCard:
		stats.RedCards++
	}
}

func gameRef(m entities.Match) GameRef {
	return GameRef{
		MatchId:      m.Id,
		OpponentName: m.OpponentName,
		MyScore:      m.MyScore,
		OppScore:     m.OpponentScore,
		Differential: m.MyScore - m.OpponentScore,
	}
}

func seasonTrend(games []entities.Match) *SeasonTrend {
	split := trendWindow
	if split > len(games) {
		split = len(games)
	}
	recent := games[:split]
	previous := games[split:]
	if len(previous) > trendWindow {
		previous = previous[:trendWindow]
	}

	recentGoals, recentWins, recentClean := windowRates(recent)
	prevGoals, prevWins, prevClean := windowRates(previous)
	return &SeasonTrend{
		GoalsPerGameDelta:   recentGoals - prevGoals,
		WinRateDelta:        recentWins - prevWins,
		CleanSheetRateDelta: recentClean - prevClean,
	}
}

func windowRates(games []entities.Match) (goalsPerGame, winRate, cleanSheetRate float64) {
	if len(games) == 0 {
		return 0, 0, 0
	}
	var goals, wins, clean int
	for _, game := range games {
		goals += game.MyScore
		if game.MyScore > game.OpponentScore {
			wins++
		}
		if game.OpponentScore == 0 {
			clean++
		}
	}
	n := float64(len(games))
	return float64(goals) / n, float64(wins) / n, float64(clean) / n
}
