package notify

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"schoolhub/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	tokens  []string
	message string
	sound   bool
}

type fakeSender struct {
	sent []sent
}

func (s *fakeSender) SendNotification(_ context.Context, tokens []string, message string, playSound bool) {
	s.sent = append(s.sent, sent{tokens: tokens, message: message, sound: playSound})
}

func (s *fakeSender) messages() []string {
	var out []string
	for _, m := range s.sent {
		out = append(out, m.message)
	}
	return out
}

type fakeTokens struct {
	tokens []string
	err    error
}

func (f fakeTokens) ListPushTokens(context.Context) ([]string, error) {
	return f.tokens, f.err
}

type fakeEvents struct {
	events []*models.Event
	since  time.Time
}

func (f *fakeEvents) ListEndingOnOrAfter(_ context.Context, t time.Time) ([]*models.Event, error) {
	f.since = t
	var out []*models.Event
	for _, e := range f.events {
		if !e.EndDate.Before(t) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSchedule struct {
	games []models.ScheduledGame
}

func (f fakeSchedule) ListBetween(_ context.Context, from, to time.Time) ([]models.ScheduledGame, error) {
	var out []models.ScheduledGame
	for _, g := range f.games {
		if !g.Date.Before(from) && g.Date.Before(to) {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeResults struct {
	results []models.GameResult
	err     error
}

func (f fakeResults) ListBetween(_ context.Context, from, to time.Time) ([]models.GameResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.GameResult
	for _, r := range f.results {
		if !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

var (
	noon   = time.Date(2017, time.October, 5, 12, 0, 0, 0, time.UTC)
	tokens = fakeTokens{tokens: []string{"device-1", "device-2"}}
)

func TestEventsJob_Today(t *testing.T) {
	events := &fakeEvents{events: []*models.Event{
		{Name: "Homecoming Week", StartDate: noon.Add(-26 * time.Hour), EndDate: noon.Add(22 * time.Hour)},
		{Name: "Spirit Day", StartDate: noon.Add(-3 * time.Hour), EndDate: noon.Add(-1 * time.Hour), Location: sql.NullString{String: "Gym", Valid: true}},
		{Name: "Winter Formal", StartDate: noon.AddDate(0, 0, 7), EndDate: noon.AddDate(0, 0, 7).Add(3 * time.Hour)},
		{Name: "Club Fair", StartDate: noon.AddDate(0, 0, -3), EndDate: noon.AddDate(0, 0, -2)},
	}}
	sender := &fakeSender{}
	job := NewEventsJob(events, tokens, sender)

	require.NoError(t, job.Run(context.Background(), noon))

	assert.Equal(t, models.StartOfDay(noon), events.since)
	assert.Equal(t, []string{
		"Happening today: Homecoming Week",
		"Happening today: Spirit Day at Gym",
	}, sender.messages())
	for _, m := range sender.sent {
		assert.Equal(t, tokens.tokens, m.tokens)
	}
}

func TestEventsJob_NoEvents(t *testing.T) {
	sender := &fakeSender{}
	job := NewEventsJob(&fakeEvents{}, fakeTokens{err: errors.New("not called")}, sender)

	require.NoError(t, job.Run(context.Background(), noon))
	assert.Empty(t, sender.sent)
}

func TestEventsJob_TokenError(t *testing.T) {
	events := &fakeEvents{events: []*models.Event{{Name: "Spirit Day", StartDate: noon, EndDate: noon.Add(time.Hour)}}}
	job := NewEventsJob(events, fakeTokens{err: errors.New("database is down")}, &fakeSender{})

	assert.Error(t, job.Run(context.Background(), noon))
}

func TestSportsJob_NotifyGames(t *testing.T) {
	schedule := fakeSchedule{games: []models.ScheduledGame{
		{Sport: "Girls Soccer", Date: noon.Add(3 * time.Hour)},
		{Sport: "Football", Date: noon.Add(7 * time.Hour)},
		{Sport: "Girls Soccer", Date: noon.Add(5 * time.Hour)},
		{Sport: "Volleyball", Date: noon.AddDate(0, 0, 1)},
	}}
	sender := &fakeSender{}
	job := NewSportsJob("Shorecrest", schedule, fakeResults{}, tokens, sender)

	require.NoError(t, job.NotifyGames(context.Background(), noon))
	assert.Equal(t, []string{"Games today: Girls Soccer, Football"}, sender.messages())
}

func TestSportsJob_NotifyGamesNoneToday(t *testing.T) {
	sender := &fakeSender{}
	job := NewSportsJob("Shorecrest", fakeSchedule{}, fakeResults{}, tokens, sender)

	require.NoError(t, job.NotifyGames(context.Background(), noon))
	assert.Equal(t, []string{NoGamesMessage}, sender.messages())
}

func TestSportsJob_NotifyResultsAtMidnight(t *testing.T) {
	midnight := time.Date(2017, time.October, 6, 0, 0, 0, 0, time.UTC)
	played := time.Date(2017, time.October, 5, 0, 0, 0, 0, time.UTC)

	results := fakeResults{results: []models.GameResult{
		{Sport: "Football", Date: played, OpponentName: "Lynnwood", HomeScore: 28, OpponentScore: 14},
		{Sport: "Girls Soccer", Date: played, OpponentName: "Eagles", HomeScore: 0, OpponentScore: 2},
		{Sport: "Volleyball", Date: played, OpponentName: "Meadowdale", HomeScore: 2, OpponentScore: 2},
		{Sport: "Cross Country", Date: played, OpponentName: models.MultipleOpponents, HomeScore: models.ScoreUnknown, OpponentScore: models.ScoreUnknown},
		{Sport: "Football", Date: played.AddDate(0, 0, -7), OpponentName: "Mariner", HomeScore: 7, OpponentScore: 3},
	}}
	sender := &fakeSender{}
	job := NewSportsJob("Shorecrest", fakeSchedule{}, results, tokens, sender)

	require.NoError(t, job.NotifyResults(context.Background(), midnight))
	assert.Equal(t, []string{
		"Shorecrest Football beat Lynnwood 28-14!",
		"Shorecrest Girls Soccer lost to Eagles 0-2",
		"Shorecrest Volleyball tied Meadowdale 2-2",
	}, sender.messages())
}

func TestSportsJob_NotifyResultsSkipsUnfinished(t *testing.T) {
	evening := time.Date(2017, time.October, 5, 19, 0, 0, 0, time.UTC)
	results := fakeResults{results: []models.GameResult{
		{Sport: "Football", Date: evening.Add(time.Hour), OpponentName: "Lynnwood", HomeScore: 0, OpponentScore: 0},
	}}
	sender := &fakeSender{}
	job := NewSportsJob("Shorecrest", fakeSchedule{}, results, tokens, sender)

	require.NoError(t, job.NotifyResults(context.Background(), evening))
	assert.Empty(t, sender.sent)
}

func TestSportsJob_NotifyResultsError(t *testing.T) {
	job := NewSportsJob("Shorecrest", fakeSchedule{}, fakeResults{err: errors.New("database is down")}, tokens, &fakeSender{})
	assert.Error(t, job.NotifyResults(context.Background(), noon))
}

func TestResultsDay(t *testing.T) {
	assert.Equal(t, time.Date(2017, time.October, 4, 0, 0, 0, 0, time.UTC), ResultsDay(time.Date(2017, time.October, 5, 0, 30, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2017, time.October, 5, 0, 0, 0, 0, time.UTC), ResultsDay(time.Date(2017, time.October, 5, 23, 0, 0, 0, time.UTC)))
}
