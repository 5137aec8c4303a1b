package sports

import (
	"strconv"
	"strings"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Column positions. The site lays tables out as
//
//	results:  Date | Home | Opponent | Result | Notes
//	schedule: Date | Time | Opponent | Location | Type | Notes
const (
	resultDateCol     = 0
	resultHomeCol     = 1
	resultOpponentCol = 2
	resultColumns     = 5

	scheduleDateCol     = 0
	scheduleTimeCol     = 1
	scheduleOpponentCol = 2
	scheduleLocationCol = 3
	scheduleColumns     = 6
)

// SplitTeamScore splits "Lake Forest Park 2" into the team name and its score.
// The last whitespace-separated token is the score; when it is not an integer the
// whole text is the name and the score is models.ScoreUnknown.
func SplitTeamScore(text string) (string, int) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", models.ScoreUnknown
	}

	last := fields[len(fields)-1]
	score, err := strconv.Atoi(last)
	if err != nil || score < 0 {
		return strings.Join(fields, " "), models.ScoreUnknown
	}
	if len(fields) == 1 {
		return "", score
	}

	return strings.Join(fields[:len(fields)-1], " "), score
}

// Table is a classified table reduced to cell texts, header row excluded
type Table struct {
	Kind TableKind
	Rows [][]string
}

// ParseResults turns result rows into game results. A row with fewer than five
// cells is merged with the row after it and both are consumed. Rows whose date
// cannot be read are dropped.
func ParseResults(sport string, rows [][]string, year models.SchoolYear, loc *time.Location) []models.GameResult {
	var results []models.GameResult

	for _, cells := range mergeShortRows(rows, resultColumns) {
		date, err := ResolveDate(year, cell(cells, resultDateCol), "", loc)
		if err != nil {
			log.Debug().Err(err).Str("sport", sport).Strs("cells", cells).Msg("Skipping result row without a date")
			continue
		}

		_, homeScore := SplitTeamScore(cell(cells, resultHomeCol))
		opponent, opponentScore := SplitTeamScore(cell(cells, resultOpponentCol))
		if opponent == "" {
			opponent = models.MultipleOpponents
			opponentScore = models.ScoreUnknown
			homeScore = models.ScoreUnknown
		}

		results = append(results, models.GameResult{
			Sport:         sport,
			Date:          date,
			OpponentName:  opponent,
			OpponentScore: opponentScore,
			HomeScore:     homeScore,
		})
	}

	return results
}

// ParseSchedule turns schedule rows into scheduled games. A row with fewer than
// six cells is merged with the row after it and both are consumed.
func ParseSchedule(sport string, rows [][]string, year models.SchoolYear, loc *time.Location) []models.ScheduledGame {
	var games []models.ScheduledGame

	for _, cells := range mergeShortRows(rows, scheduleColumns) {
		date, err := ResolveDate(year, cell(cells, scheduleDateCol), cell(cells, scheduleTimeCol), loc)
		if err != nil {
			log.Debug().Err(err).Str("sport", sport).Strs("cells", cells).Msg("Skipping schedule row without a date")
			continue
		}

		opponent := cell(cells, scheduleOpponentCol)
		if opponent == "" {
			opponent = models.MultipleOpponents
		}

		games = append(games, models.ScheduledGame{
			Sport:        sport,
			Date:         date,
			OpponentName: opponent,
			LocationName: cell(cells, scheduleLocationCol),
		})
	}

	return games
}

// mergeShortRows joins each row that has fewer than width cells with the next row.
// Empty rows are dropped.
func mergeShortRows(rows [][]string, width int) [][]string {
	var merged [][]string

	for i := 0; i < len(rows); i++ {
		cells := rows[i]
		if len(cells) == 0 {
			continue
		}
		if len(cells) < width && i+1 < len(rows) {
			joined := make([]string, 0, len(cells)+len(rows[i+1]))
			joined = append(joined, cells...)
			joined = append(joined, rows[i+1]...)
			cells = joined
			i++
		}
		merged = append(merged, cells)
	}

	return merged
}

func cell(cells []string, idx int) string {
	if idx < len(cells) {
		return cleanText(cells[idx])
	}
	return ""
}
