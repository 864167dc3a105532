package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ offlineAccruer = &offlineAccruerMock{}

type offlineAccruerMock struct {
	ApplyOfflineProgressionFunc func(ctx context.Context, accountID uuid.UUID) (int64, error)

	calls struct {
		ApplyOfflineProgression []struct {
			Ctx       context.Context
			AccountID uuid.UUID
		}
	}
	lockApplyOfflineProgression sync.RWMutex
}

func (mock *offlineAccruerMock) ApplyOfflineProgression(ctx context.Context, accountID uuid.UUID) (int64, error) {
	if mock.ApplyOfflineProgressionFunc == nil {
		panic("offlineAccruerMock.ApplyOfflineProgressionFunc: method is nil but offlineAccruer.ApplyOfflineProgression was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		AccountID uuid.UUID
	}{Ctx: ctx, AccountID: accountID}
	mock.lockApplyOfflineProgression.Lock()
	mock.calls.ApplyOfflineProgression = append(mock.calls.ApplyOfflineProgression, callInfo)
	mock.lockApplyOfflineProgression.Unlock()
	return mock.ApplyOfflineProgressionFunc(ctx, accountID)
}

func (mock *offlineAccruerMock) ApplyOfflineProgressionCalls() []struct {
	Ctx       context.Context
	AccountID uuid.UUID
} {
	mock.lockApplyOfflineProgression.RLock()
	calls := mock.calls.ApplyOfflineProgression
	mock.lockApplyOfflineProgression.RUnlock()
	return calls
}
