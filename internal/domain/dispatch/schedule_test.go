package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/test/helpers"
)

func TestVerifySchedule_RejectsTamperedSchedules(t *testing.T) {
	problem := helpers.NewTestProblem(t, helpers.ForkNetwork(t), params(10, 2))

	tests := []struct {
		name   string
		tamper func(s *dispatch.Schedule)
		field  string
	}{
		{
			name: "pickup above stock",
			tamper: func(s *dispatch.Schedule) {
				s.Assignments[0].Trip.Visits[0].Pickup = 11
			},
			field: "assignments[0]",
		},
		{
			name: "missing trip leaves material behind",
			tamper: func(s *dispatch.Schedule) {
				s.Assignments = s.Assignments[:1]
			},
			field: "assignments",
		},
		{
			name: "overlapping trips on one vehicle",
			tamper: func(s *dispatch.Schedule) {
				s.Assignments[1].Vehicle = s.Assignments[0].Vehicle
			},
			field: "assignments[1]",
		},
		{
			name: "wrong makespan",
			tamper: func(s *dispatch.Schedule) {
				s.Makespan = 1
			},
			field: "makespan",
		},
		{
			name: "vehicle out of range",
			tamper: func(s *dispatch.Schedule) {
				s.Assignments[0].Vehicle = 5
			},
			field: "assignments[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := solve(t, problem)
			tt.tamper(plan.Schedule)

			err := dispatch.VerifySchedule(problem, plan.Schedule)

			var validation *shared.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestSchedule_TripsForAndTotals(t *testing.T) {
	problem := helpers.NewTestProblem(t, helpers.ForkNetwork(t), params(10, 2))

	plan := solve(t, problem)

	assert.Equal(t, 20, plan.Schedule.TotalMaterial())
	assert.Len(t, plan.Schedule.TripsFor(0), 1)
	assert.Len(t, plan.Schedule.TripsFor(1), 1)
	assert.Empty(t, plan.Schedule.TripsFor(2))
	assert.Equal(t, 20.0, plan.Schedule.TripsFor(0)[0].EndTime())
}
