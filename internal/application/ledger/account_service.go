package ledger

import (
	"context"

	"github.com/cashdesk/backend/internal/domain/ledger"
	"github.com/cashdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AccountService exposes the read side of project accounts. Lifecycle
// operations live in account management; the ledger only lists accounts
// and their maintained balances.
type AccountService struct {
	accounts ledger.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts ledger.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// AccountResponse represents an account in API responses. Balances carry
// the currency tag so clients never have to assume one.
type AccountResponse struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Type           string            `json:"type"`
	CompanyID      uuid.UUID         `json:"company_id"`
	InitialBalance valueobject.Money `json:"initial_balance"`
	CurrentBalance valueobject.Money `json:"current_balance"`
}

// ListAccounts returns every active account of the project
func (s *AccountService) ListAccounts(ctx context.Context, projectID uuid.UUID) ([]AccountResponse, error) {
	accounts, err := s.accounts.FindActiveForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, toAccountResponse(account))
	}
	return result, nil
}

// GetAccount returns a single account by ID
func (s *AccountService) GetAccount(ctx context.Context, projectID, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	resp := toAccountResponse(account)
	return &resp, nil
}

func toAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		CompanyID:      a.CompanyID,
		InitialBalance: valueobject.NewMoneyBRL(a.InitialBalance.Round(valueobject.MinorUnitPlaces)),
		CurrentBalance: valueobject.NewMoneyBRL(a.CurrentBalance.Round(valueobject.MinorUnitPlaces)),
	}
}
