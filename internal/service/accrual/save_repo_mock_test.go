package accrual

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

var _ saveRepo = &saveRepoMock{}

type saveRepoMock struct {
	GetByAccountFunc      func(ctx context.Context, accountID uuid.UUID) (*domain.GameSave, error)
	CreditCollectionFunc  func(ctx context.Context, saveID uuid.UUID, amount int64, now time.Time) error
	CreditOfflineFunc     func(ctx context.Context, saveID uuid.UUID, amount, wholeHours int64, now time.Time) error
	ListStaleAccountsFunc func(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)

	calls struct {
		GetByAccount []struct {
			Ctx       context.Context
			AccountID uuid.UUID
		}
		CreditCollection []struct {
			Ctx    context.Context
			SaveID uuid.UUID
			Amount int64
			Now    time.Time
		}
		CreditOffline []struct {
			Ctx        context.Context
			SaveID     uuid.UUID
			Amount     int64
			WholeHours int64
			Now        time.Time
		}
		ListStaleAccounts []struct {
			Ctx    context.Context
			Cutoff time.Time
			Limit  int
		}
	}
	lockGetByAccount      sync.RWMutex
	lockCreditCollection  sync.RWMutex
	lockCreditOffline     sync.RWMutex
	lockListStaleAccounts sync.RWMutex
}

func (mock *saveRepoMock) GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.GameSave, error) {
	if mock.GetByAccountFunc == nil {
		panic("saveRepoMock.GetByAccountFunc: method is nil but saveRepo.GetByAccount was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		AccountID uuid.UUID
	}{Ctx: ctx, AccountID: accountID}
	mock.lockGetByAccount.Lock()
	mock.calls.GetByAccount = append(mock.calls.GetByAccount, callInfo)
	mock.lockGetByAccount.Unlock()
	return mock.GetByAccountFunc(ctx, accountID)
}

func (mock *saveRepoMock) GetByAccountCalls() []struct {
	Ctx       context.Context
	AccountID uuid.UUID
} {
	mock.lockGetByAccount.RLock()
	calls := mock.calls.GetByAccount
	mock.lockGetByAccount.RUnlock()
	return calls
}

func (mock *saveRepoMock) CreditCollection(ctx context.Context, saveID uuid.UUID, amount int64, now time.Time) error {
	if mock.CreditCollectionFunc == nil {
		panic("saveRepoMock.CreditCollectionFunc: method is nil but saveRepo.CreditCollection was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		SaveID uuid.UUID
		Amount int64
		Now    time.Time
	}{Ctx: ctx, SaveID: saveID, Amount: amount, Now: now}
	mock.lockCreditCollection.Lock()
	mock.calls.CreditCollection = append(mock.calls.CreditCollection, callInfo)
	mock.lockCreditCollection.Unlock()
	return mock.CreditCollectionFunc(ctx, saveID, amount, now)
}

func (mock *saveRepoMock) CreditCollectionCalls() []struct {
	Ctx    context.Context
	SaveID uuid.UUID
	Amount int64
	Now    time.Time
} {
	mock.lockCreditCollection.RLock()
	calls := mock.calls.CreditCollection
	mock.lockCreditCollection.RUnlock()
	return calls
}

func (mock *saveRepoMock) CreditOffline(ctx context.Context, saveID uuid.UUID, amount, wholeHours int64, now time.Time) error {
	if mock.CreditOfflineFunc == nil {
		panic("saveRepoMock.CreditOfflineFunc: method is nil but saveRepo.CreditOffline was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		SaveID     uuid.UUID
		Amount     int64
		WholeHours int64
		Now        time.Time
	}{Ctx: ctx, SaveID: saveID, Amount: amount, WholeHours: wholeHours, Now: now}
	mock.lockCreditOffline.Lock()
	mock.calls.CreditOffline = append(mock.calls.CreditOffline, callInfo)
	mock.lockCreditOffline.Unlock()
	return mock.CreditOfflineFunc(ctx, saveID, amount, wholeHours, now)
}

func (mock *saveRepoMock) CreditOfflineCalls() []struct {
	Ctx        context.Context
	SaveID     uuid.UUID
	Amount     int64
	WholeHours int64
	Now        time.Time
} {
	mock.lockCreditOffline.RLock()
	calls := mock.calls.CreditOffline
	mock.lockCreditOffline.RUnlock()
	return calls
}

func (mock *saveRepoMock) ListStaleAccounts(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	if mock.ListStaleAccountsFunc == nil {
		panic("saveRepoMock.ListStaleAccountsFunc: method is nil but saveRepo.ListStaleAccounts was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Cutoff time.Time
		Limit  int
	}{Ctx: ctx, Cutoff: cutoff, Limit: limit}
	mock.lockListStaleAccounts.Lock()
	mock.calls.ListStaleAccounts = append(mock.calls.ListStaleAccounts, callInfo)
	mock.lockListStaleAccounts.Unlock()
	return mock.ListStaleAccountsFunc(ctx, cutoff, limit)
}

func (mock *saveRepoMock) ListStaleAccountsCalls() []struct {
	Ctx    context.Context
	Cutoff time.Time
	Limit  int
} {
	mock.lockListStaleAccounts.RLock()
	calls := mock.calls.ListStaleAccounts
	mock.lockListStaleAccounts.RUnlock()
	return calls
}
