package mediator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/minehaul-go/internal/application/mediator"
)

type pingQuery struct{ Name string }

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return "pong " + request.(*pingQuery).Name, nil
}

func TestMediator_SendDispatchesToRegisteredHandler(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, pingHandler{}))

	resp, err := med.Send(context.Background(), &pingQuery{Name: "depot"})

	require.NoError(t, err)
	assert.Equal(t, "pong depot", resp)
}

func TestMediator_RejectsUnknownAndDuplicateRegistrations(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingQuery](med, pingHandler{}))

	_, err := med.Send(context.Background(), struct{}{})
	assert.ErrorContains(t, err, "no handler registered")

	_, err = med.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, pingHandler{}))

	var order []string
	trace := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			order = append(order, name+">")
			resp, err := next(ctx, request)
			order = append(order, "<"+name)
			return resp, err
		}
	}
	med.RegisterMiddleware(trace("outer"))
	med.RegisterMiddleware(trace("inner"))

	_, err := med.Send(context.Background(), &pingQuery{})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, order)
}

func TestSendTyped(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, pingHandler{}))

	reply, err := mediator.SendTyped[string](context.Background(), med, &pingQuery{Name: "M1"})
	require.NoError(t, err)
	assert.Equal(t, "pong M1", reply)

	_, err = mediator.SendTyped[int](context.Background(), med, &pingQuery{})
	assert.ErrorContains(t, err, "unexpected response string")
}
