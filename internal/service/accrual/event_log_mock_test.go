package accrual

import (
	"context"
	"sync"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

var _ eventLog = &eventLogMock{}

type eventLogMock struct {
	AppendFunc func(ctx context.Context, ev domain.GameEvent) error

	calls struct {
		Append []struct {
			Ctx context.Context
			Ev  domain.GameEvent
		}
	}
	lockAppend sync.RWMutex
}

func (mock *eventLogMock) Append(ctx context.Context, ev domain.GameEvent) error {
	if mock.AppendFunc == nil {
		panic("eventLogMock.AppendFunc: method is nil but eventLog.Append was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ev  domain.GameEvent
	}{Ctx: ctx, Ev: ev}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, ev)
}

func (mock *eventLogMock) AppendCalls() []struct {
	Ctx context.Context
	Ev  domain.GameEvent
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}
