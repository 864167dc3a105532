package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

var _ accountRepo = &accountRepoMock{}

type accountRepoMock struct {
	CreateFunc          func(ctx context.Context, a *domain.Account) (*domain.Account, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsernameFunc   func(ctx context.Context, username string) (*domain.Account, error)
	UpdateLastLoginFunc func(ctx context.Context, id uuid.UUID, at time.Time) error

	calls struct {
		Create []struct {
			Ctx context.Context
			A   *domain.Account
		}
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		GetByUsername []struct {
			Ctx      context.Context
			Username string
		}
		UpdateLastLogin []struct {
			Ctx context.Context
			ID  uuid.UUID
			At  time.Time
		}
	}
	lockCreate          sync.RWMutex
	lockGetByID         sync.RWMutex
	lockGetByUsername   sync.RWMutex
	lockUpdateLastLogin sync.RWMutex
}

func (mock *accountRepoMock) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if mock.CreateFunc == nil {
		panic("accountRepoMock.CreateFunc: method is nil but accountRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		A   *domain.Account
	}{Ctx: ctx, A: a}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, a)
}

func (mock *accountRepoMock) CreateCalls() []struct {
	Ctx context.Context
	A   *domain.Account
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *accountRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if mock.GetByIDFunc == nil {
		panic("accountRepoMock.GetByIDFunc: method is nil but accountRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *accountRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *accountRepoMock) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if mock.GetByUsernameFunc == nil {
		panic("accountRepoMock.GetByUsernameFunc: method is nil but accountRepo.GetByUsername was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Username string
	}{Ctx: ctx, Username: username}
	mock.lockGetByUsername.Lock()
	mock.calls.GetByUsername = append(mock.calls.GetByUsername, callInfo)
	mock.lockGetByUsername.Unlock()
	return mock.GetByUsernameFunc(ctx, username)
}

func (mock *accountRepoMock) GetByUsernameCalls() []struct {
	Ctx      context.Context
	Username string
} {
	mock.lockGetByUsername.RLock()
	calls := mock.calls.GetByUsername
	mock.lockGetByUsername.RUnlock()
	return calls
}

func (mock *accountRepoMock) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if mock.UpdateLastLoginFunc == nil {
		panic("accountRepoMock.UpdateLastLoginFunc: method is nil but accountRepo.UpdateLastLogin was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	}{Ctx: ctx, ID: id, At: at}
	mock.lockUpdateLastLogin.Lock()
	mock.calls.UpdateLastLogin = append(mock.calls.UpdateLastLogin, callInfo)
	mock.lockUpdateLastLogin.Unlock()
	return mock.UpdateLastLoginFunc(ctx, id, at)
}

func (mock *accountRepoMock) UpdateLastLoginCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	At  time.Time
} {
	mock.lockUpdateLastLogin.RLock()
	calls := mock.calls.UpdateLastLogin
	mock.lockUpdateLastLogin.RUnlock()
	return calls
}
