package auth

import "github.com/greenrush/tycoon-backend/internal/domain"

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token   string
	Account *domain.Account
	Save    *domain.GameSave

	// OfflineIncome is the amount back-filled by offline progression on
	// login; zero for Register and for sub-threshold reconnects.
	OfflineIncome int64
}
