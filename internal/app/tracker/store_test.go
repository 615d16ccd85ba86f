package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/matchtrack/internal/domains/entities"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type capturingPersistence struct {
	saves []entities.Snapshot
	err   error
}

func (p *capturingPersistence) SaveSnapshot(_ context.Context, snap entities.Snapshot) error {
	p.saves = append(p.saves, snap)
	return p.err
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)}
	seq := 0
	store := NewStore(Options{
		Now: clock.Now,
		NewId: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	return store, clock
}

func TestStartGame(t *testing.T) {
	store, _ := newTestStore()

	id, err := store.StartGame("  Riverside  ")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	active, ok := store.ActiveMatch()
	require.True(t, ok)
	assert.Equal(t, "Riverside", active.OpponentName)
	assert.Equal(t, 0, active.MyScore)
	assert.Empty(t, active.Events)
	assert.False(t, active.IsRunning)
}

func TestStartGameBlankOpponent(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.StartGame("   ")
	assert.ErrorIs(t, err, ErrBlankOpponent)
	_, ok := store.ActiveMatch()
	assert.False(t, ok)
}

func TestStartGameDiscardsUnfinishedMatch(t *testing.T) {
	store, _ := newTestStore()

	first, err := store.StartGame("Riverside")
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)

	second, err := store.StartGame("Lakeside")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	active, ok := store.ActiveMatch()
	require.True(t, ok)
	assert.Equal(t, "Lakeside", active.OpponentName)
	assert.Empty(t, active.Events)
	assert.Empty(t, store.History(), "discarded match must not be archived")
}

func TestBasicMatchFlow(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)

	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventGoal, entities.TeamThem, "", entities.EventMeta{})
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventPenalty, entities.TeamUs, "Alex", entities.EventMeta{IsPK: true})
	require.NoError(t, err)

	active, ok := store.ActiveMatch()
	require.True(t, ok)
	assert.Equal(t, 1, active.MyScore)
	assert.Equal(t, 1, active.OpponentScore)
	require.Len(t, active.Events, 3)
	assert.Equal(t, entities.EventPenalty, active.Events[0].Type, "newest event first")
	assert.Contains(t, store.Roster(), "Alex")
}

func TestUndoLastEvent(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventPenalty, entities.TeamUs, "Alex", entities.EventMeta{IsPK: true})
	require.NoError(t, err)

	store.UndoLastEvent()

	active, _ := store.ActiveMatch()
	require.Len(t, active.Events, 1)
	assert.Equal(t, entities.EventGoal, active.Events[0].Type)
	assert.Equal(t, 1, active.MyScore, "undoing a non-goal leaves the score alone")

	// Undoing past empty is a no-op and scores never go negative.
	store.UndoLastEvent()
	store.UndoLastEvent()
	store.UndoLastEvent()
	active, _ = store.ActiveMatch()
	assert.Empty(t, active.Events)
	assert.Equal(t, 0, active.MyScore)
	assert.Equal(t, 0, active.OpponentScore)
}

func TestAddEventValidation(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.AddEvent(entities.EventGoal, entities.TeamUs, "", entities.EventMeta{})
	assert.ErrorIs(t, err, ErrNoActiveMatch)

	_, err = store.StartGame("Riverside")
	require.NoError(t, err)

	_, err = store.AddEvent("own_goal", entities.TeamUs, "", entities.EventMeta{})
	assert.ErrorIs(t, err, ErrInvalidEventType)
	_, err = store.AddEvent(entities.EventGoal, "home", "", entities.EventMeta{})
	assert.ErrorIs(t, err, ErrInvalidTeam)

	active, _ := store.ActiveMatch()
	assert.Empty(t, active.Events, "rejected events must not change state")
}

func TestUpdateEventRecountsScores(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	goal, err := store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)

	them := entities.TeamThem
	require.NoError(t, store.UpdateEvent(goal.Id, entities.EventPatch{Team: &them}))

	active, _ := store.ActiveMatch()
	assert.Equal(t, 0, active.MyScore)
	assert.Equal(t, 1, active.OpponentScore)

	// Retyping the goal as a penalty drops it from both scores.
	penalty := entities.EventPenalty
	require.NoError(t, store.UpdateEvent(goal.Id, entities.EventPatch{Type: &penalty}))
	active, _ = store.ActiveMatch()
	assert.Equal(t, 0, active.MyScore)
	assert.Equal(t, 0, active.OpponentScore)

	// Unknown id is a silent no-op.
	require.NoError(t, store.UpdateEvent("missing", entities.EventPatch{Type: &penalty}))
}

func TestDeleteEventRecountsScores(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	goal, err := store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Sam", entities.EventMeta{})
	require.NoError(t, err)

	store.DeleteEvent(goal.Id)

	active, _ := store.ActiveMatch()
	require.Len(t, active.Events, 1)
	assert.Equal(t, 1, active.MyScore)

	store.DeleteEvent("missing")
	active, _ = store.ActiveMatch()
	assert.Len(t, active.Events, 1)
}

func TestFinishGame(t *testing.T) {
	store, clock := newTestStore()

	id, err := store.StartGame("Riverside")
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)

	store.ToggleTimer()
	clock.Advance(20 * time.Minute)
	store.FinishGame()

	_, ok := store.ActiveMatch()
	assert.False(t, ok, "active match resets to empty")

	history := store.History()
	require.Len(t, history, 1)
	assert.Equal(t, id, history[0].Id)
	assert.Equal(t, 20*time.Minute, history[0].FinalTime)
	assert.Equal(t, 1, history[0].MyScore)
	assert.Nil(t, history[0].LastEdited)

	// Finishing again without an active match is a no-op.
	store.FinishGame()
	assert.Len(t, store.History(), 1)
}

func TestHistoryOrderingNewestFirst(t *testing.T) {
	store, clock := newTestStore()

	for _, opponent := range []string{"Riverside", "Lakeside", "Hillcrest"} {
		_, err := store.StartGame(opponent)
		require.NoError(t, err)
		clock.Advance(time.Minute)
		store.FinishGame()
	}

	history := store.History()
	require.Len(t, history, 3)
	assert.Equal(t, "Hillcrest", history[0].OpponentName)
	assert.Equal(t, "Riverside", history[2].OpponentName)
}

func TestHistoricalEditRecountsScores(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	goal, err := store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)
	store.FinishGame()

	matchId := store.History()[0].Id
	them := entities.TeamThem
	require.NoError(t, store.UpdateHistoricalEvent(matchId, goal.Id, entities.EventPatch{Team: &them}))

	match := store.History()[0]
	assert.Equal(t, 0, match.MyScore)
	assert.Equal(t, 1, match.OpponentScore)
	require.NotNil(t, match.LastEdited)

	added, err := store.AddHistoricalEvent(
		matchId,
		entities.EventGoal,
		entities.TeamUs,
		"Sam",
		entities.EventMeta{},
		10*time.Minute,
	)
	require.NoError(t, err)
	match = store.History()[0]
	assert.Equal(t, 1, match.MyScore)
	assert.Equal(t, added.Id, match.Events[0].Id, "newest first")

	store.DeleteHistoricalEvent(matchId, added.Id)
	match = store.History()[0]
	assert.Equal(t, 0, match.MyScore)

	// Unknown match id errors on add, silently no-ops on patch.
	_, err = store.AddHistoricalEvent(
		"missing",
		entities.EventGoal,
		entities.TeamUs,
		"",
		entities.EventMeta{},
		0,
	)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	require.NoError(t, store.UpdateHistoricalEvent("missing", goal.Id, entities.EventPatch{Team: &them}))
}

func TestUpdateMatchMetadata(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	store.FinishGame()
	matchId := store.History()[0].Id

	require.NoError(t, store.UpdateMatchMetadata(matchId, " Riverside FC "))
	match := store.History()[0]
	assert.Equal(t, "Riverside FC", match.OpponentName)
	assert.NotNil(t, match.LastEdited)

	assert.ErrorIs(t, store.UpdateMatchMetadata(matchId, "  "), ErrBlankOpponent)
}

func TestDeleteMatch(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	store.FinishGame()
	matchId := store.History()[0].Id

	store.DeleteMatch("missing")
	require.Len(t, store.History(), 1)

	store.DeleteMatch(matchId)
	assert.Empty(t, store.History())
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	store, _ := newTestStore()

	var seen []entities.Snapshot
	store.Subscribe(func(snap entities.Snapshot) {
		seen = append(seen, snap)
	})

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	require.NotNil(t, seen[0].Active)

	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[1].Active.MyScore)
}

func TestPersistenceWrittenPerMutation(t *testing.T) {
	persistence := &capturingPersistence{}
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := NewStore(Options{Now: clock.Now, Persistence: persistence})

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)
	store.FinishGame()

	require.Len(t, persistence.saves, 3)
	last := persistence.saves[2]
	assert.Nil(t, last.Active)
	assert.Len(t, last.History, 1)
}

func TestPersistenceFailureIsNotSurfaced(t *testing.T) {
	persistence := &capturingPersistence{err: errors.New("disk full")}
	store := NewStore(Options{Persistence: persistence})

	_, err := store.StartGame("Riverside")
	assert.NoError(t, err, "persistence is best-effort")
}

func TestRestoreRoundTrip(t *testing.T) {
	store, clock := newTestStore()

	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)
	store.FinishGame()
	_, err = store.StartGame("Lakeside")
	require.NoError(t, err)
	snap := store.Snapshot()

	restored := NewStore(Options{Now: clock.Now})
	restored.Restore(snap)

	active, ok := restored.ActiveMatch()
	require.True(t, ok)
	assert.Equal(t, "Lakeside", active.OpponentName)
	require.Len(t, restored.History(), 1)
	assert.Contains(t, restored.Roster(), "Alex")
}
