package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

var _ saveRepo = &saveRepoMock{}

type saveRepoMock struct {
	CreateFunc       func(ctx context.Context, s *domain.GameSave) error
	GetByAccountFunc func(ctx context.Context, accountID uuid.UUID) (*domain.GameSave, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			S   *domain.GameSave
		}
		GetByAccount []struct {
			Ctx       context.Context
			AccountID uuid.UUID
		}
	}
	lockCreate       sync.RWMutex
	lockGetByAccount sync.RWMutex
}

func (mock *saveRepoMock) Create(ctx context.Context, s *domain.GameSave) error {
	if mock.CreateFunc == nil {
		panic("saveRepoMock.CreateFunc: method is nil but saveRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   *domain.GameSave
	}{Ctx: ctx, S: s}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, s)
}

func (mock *saveRepoMock) CreateCalls() []struct {
	Ctx context.Context
	S   *domain.GameSave
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
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
