package playback_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/playback"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/test/helpers"
)

func solveSchedule(t *testing.T, net *network.Network, capacity, fleet int, loadTime, unloadTime float64) *dispatch.Schedule {
	t.Helper()
	p := dispatch.DefaultParameters()
	p.Capacity = capacity
	p.FleetSize = fleet
	p.LoadTime = loadTime
	p.UnloadTime = unloadTime
	problem := helpers.NewTestProblem(t, net, p)

	plan, err := dispatch.NewExactSolver().Solve(context.Background(), problem)
	require.NoError(t, err)
	return plan.Schedule
}

func playAll(t *testing.T, engine *playback.Engine, schedule *dispatch.Schedule) []*playback.Snapshot {
	t.Helper()
	var snapshots []*playback.Snapshot
	for snapshot, err := range engine.Play(context.Background(), schedule) {
		require.NoError(t, err)
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

func defaultEngine(t *testing.T) *playback.Engine {
	engine, err := playback.NewEngine(playback.DefaultOptions())
	require.NoError(t, err)
	return engine
}

func TestEngine_SingleTripTimeline(t *testing.T) {
	// Arrange
	schedule := solveSchedule(t, helpers.SingleMineNetwork(t), 50, 1, 2, 1)

	// Act
	snapshots := playAll(t, defaultEngine(t), schedule)

	// Assert
	require.Len(t, snapshots, 24)
	first := snapshots[0]
	assert.Equal(t, 0, first.Tick)
	assert.Equal(t, playback.ActivityTraveling, first.Vehicles[0].Activity)
	assert.Equal(t, 10, first.Vehicles[0].RemainingTicks)
	assert.Equal(t, shared.SiteID("M1"), first.Vehicles[0].Target)

	loading := snapshots[10]
	assert.Equal(t, playback.ActivityLoading, loading.Vehicles[0].Activity)
	assert.Equal(t, shared.SiteID("M1"), loading.Vehicles[0].Location)
	assert.Equal(t, 0, loading.Mines[0].Queue)
	assert.Equal(t, 0, loading.Mines[0].Loading)

	returning := snapshots[12]
	assert.Equal(t, playback.ActivityTraveling, returning.Vehicles[0].Activity)
	assert.Equal(t, 50, returning.Vehicles[0].Cargo)
	assert.Equal(t, 0, returning.Mines[0].Remaining)

	last := snapshots[len(snapshots)-1]
	assert.Equal(t, 23, last.Tick)
	assert.True(t, last.Done())
	assert.Equal(t, 50, last.Delivered)
	assert.Equal(t, 1, last.Vehicles[0].TripsCompleted)
	assert.Equal(t, 100.0, last.Progress())
}

func TestEngine_ConservesMaterialEveryTick(t *testing.T) {
	schedule := solveSchedule(t, helpers.TriangleNetwork(t), 30, 2, 1, 1)

	snapshots := playAll(t, defaultEngine(t), schedule)

	for _, s := range snapshots {
		assert.Equal(t, 100, s.InMines()+s.InTransit()+s.Delivered, "tick %d", s.Tick)
		for _, v := range s.Vehicles {
			assert.LessOrEqual(t, v.Cargo, 30)
		}
	}
	assert.Equal(t, 100, snapshots[len(snapshots)-1].Delivered)
}

func TestEngine_PlaybackIsIdempotent(t *testing.T) {
	schedule := solveSchedule(t, helpers.TriangleNetwork(t), 30, 2, 1, 1)
	engine := defaultEngine(t)

	first := playAll(t, engine, schedule)
	second := playAll(t, engine, schedule)

	assert.Equal(t, first, second)
}

func TestEngine_QueuesAtBusyLoadingBay(t *testing.T) {
	// Arrange - both vehicles reach M1 at tick 10
	schedule := solveSchedule(t, helpers.SingleMineNetwork(t), 25, 2, 2, 0)
	require.Len(t, schedule.Assignments, 2)

	// Act
	snapshots := playAll(t, defaultEngine(t), schedule)

	// Assert
	arrival := snapshots[10]
	assert.Equal(t, playback.ActivityLoading, arrival.Vehicles[0].Activity)
	assert.Equal(t, playback.ActivityWaiting, arrival.Vehicles[1].Activity)
	assert.Equal(t, 1, arrival.Mines[0].Queue)

	handover := snapshots[12]
	assert.Equal(t, playback.ActivityTraveling, handover.Vehicles[0].Activity)
	assert.Equal(t, playback.ActivityLoading, handover.Vehicles[1].Activity)
	assert.Equal(t, 1, handover.Mines[0].Loading)

	last := snapshots[len(snapshots)-1]
	assert.Equal(t, 24, last.Tick)
	assert.Equal(t, 0, last.Vehicles[0].WaitTicks)
	assert.Equal(t, 2, last.Vehicles[1].WaitTicks)
	assert.Greater(t, last.Time, schedule.Makespan)
}

func TestEngine_LimitedUnloadBays(t *testing.T) {
	// Arrange - two symmetric spurs, both vehicles are back at tick 10
	net := helpers.NewTestNetwork(t,
		[]helpers.SiteSpec{helpers.Depot("D"), helpers.Mine("A", 10), helpers.Mine("B", 10)},
		helpers.Road("D", "A", 5),
		helpers.Road("D", "B", 5),
	)
	schedule := solveSchedule(t, net, 10, 2, 0, 3)

	unlimited := defaultEngine(t)
	single, err := playback.NewEngine(playback.Options{TickDuration: 1, UnloadBays: 1})
	require.NoError(t, err)

	// Act
	free := playAll(t, unlimited, schedule)
	limited := playAll(t, single, schedule)

	// Assert
	assert.Equal(t, 13, free[len(free)-1].Tick)
	assert.Equal(t, 16, limited[len(limited)-1].Tick)
	assert.Equal(t, 1, limited[10].DepotQueue)
	assert.Equal(t, playback.ActivityWaiting, limited[10].Vehicles[1].Activity)
}

func TestEngine_TickDurationRoundsUp(t *testing.T) {
	schedule := solveSchedule(t, helpers.SingleMineNetwork(t), 50, 1, 2, 1)
	engine, err := playback.NewEngine(playback.Options{TickDuration: 2})
	require.NoError(t, err)

	snapshots := playAll(t, engine, schedule)

	// 5 + 1 + 5 ticks of work plus the half-tick unload rounded up
	last := snapshots[len(snapshots)-1]
	assert.Equal(t, 12, last.Tick)
	assert.Equal(t, 24.0, last.Time)
	assert.Equal(t, 6, engine.Ticks(11.5))
	assert.Equal(t, 0, engine.Ticks(0))
}

func TestEngine_IdleVehicleFinishesImmediately(t *testing.T) {
	schedule := solveSchedule(t, helpers.SingleMineNetwork(t), 50, 3, 0, 0)

	snapshots := playAll(t, defaultEngine(t), schedule)

	assert.Equal(t, playback.ActivityFinished, snapshots[0].Vehicles[1].Activity)
	assert.Equal(t, playback.ActivityFinished, snapshots[0].Vehicles[2].Activity)
	assert.Equal(t, 20, snapshots[len(snapshots)-1].Tick)
}

func TestEngine_DetectsPickupAboveStock(t *testing.T) {
	// Arrange
	schedule := solveSchedule(t, helpers.SingleMineNetwork(t), 50, 1, 2, 1)
	schedule.Stock[0].Initial = 40

	// Act
	var err error
	for _, e := range defaultEngine(t).Play(context.Background(), schedule) {
		if e != nil {
			err = e
		}
	}

	// Assert
	var corruption *shared.ScheduleCorruptionError
	require.ErrorAs(t, err, &corruption)
	assert.Equal(t, 0, corruption.Vehicle)
	assert.Equal(t, 12, corruption.Tick)
}

func TestEngine_DetectsUnknownMine(t *testing.T) {
	schedule := solveSchedule(t, helpers.SingleMineNetwork(t), 50, 1, 0, 0)
	schedule.Assignments[0].Trip.Visits[0].Mine = "GHOST"

	var err error
	for _, e := range defaultEngine(t).Play(context.Background(), schedule) {
		err = e
	}

	var corruption *shared.ScheduleCorruptionError
	assert.ErrorAs(t, err, &corruption)
}

func TestEngine_StopsOnCancellation(t *testing.T) {
	schedule := solveSchedule(t, helpers.SingleMineNetwork(t), 50, 1, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		ticks int
		err   error
	)
	for snapshot, e := range defaultEngine(t).Play(ctx, schedule) {
		if e != nil {
			err = e
			break
		}
		ticks++
		if snapshot.Tick == 3 {
			cancel()
		}
	}

	assert.Equal(t, 4, ticks)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEngine_RejectsInvalidOptions(t *testing.T) {
	_, err := playback.NewEngine(playback.Options{TickDuration: 0})
	var infeasible *shared.InfeasibleConfigError
	assert.ErrorAs(t, err, &infeasible)

	_, err = playback.NewEngine(playback.Options{TickDuration: 1, UnloadBays: -1})
	assert.ErrorAs(t, err, &infeasible)
}

func TestEngine_Summarize(t *testing.T) {
	schedule := solveSchedule(t, helpers.SingleMineNetwork(t), 25, 2, 2, 0)

	summary, err := defaultEngine(t).Summarize(context.Background(), schedule)

	require.NoError(t, err)
	assert.Equal(t, 24, summary.FinalTick)
	assert.Equal(t, 25, summary.Ticks)
	assert.Equal(t, 50, summary.Delivered)
	assert.Equal(t, 2, summary.WaitTicks)
	assert.Equal(t, 22.0, summary.PlannedMakespan)
	assert.InDelta(t, 50.0/(24*2), summary.Efficiency, 1e-9)
	assert.Equal(t, 100.0, summary.Progress())
	require.Len(t, summary.Vehicles, 2)
	assert.Equal(t, 1, summary.Vehicles[1].Trips)
}
