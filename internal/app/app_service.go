package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mandi-billing/internal/ai"
	"mandi-billing/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

// appService implements ApplicationService by composing the core services.
type appService struct {
	pool         *pgxpool.Pool
	parties      core.PartyService
	products     core.ProductService
	transactions core.TransactionService
	snapshots    core.SnapshotService
	summaries    core.SummaryService
	users        core.UserService
	agent        ai.AgentService
}

// NewAppService wires the core services into the single application facade.
func NewAppService(
	pool *pgxpool.Pool,
	parties core.PartyService,
	products core.ProductService,
	transactions core.TransactionService,
	snapshots core.SnapshotService,
	summaries core.SummaryService,
	users core.UserService,
	agent ai.AgentService,
) ApplicationService {
	return &appService{
		pool:         pool,
		parties:      parties,
		products:     products,
		transactions: transactions,
		snapshots:    snapshots,
		summaries:    summaries,
		users:        users,
		agent:        agent,
	}
}

func (s *appService) ListParties(ctx context.Context, role core.PartyRole) (*PartyListResult, error) {
	parties, err := s.parties.List(ctx, role)
	if err != nil {
		return nil, err
	}
	return &PartyListResult{Role: role, Parties: parties}, nil
}

func (s *appService) GetParty(ctx context.Context, id int) (*PartyResult, error) {
	party, err := s.parties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return &PartyResult{}, nil
	}
	snapshot, err := s.snapshots.GetByPartyID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PartyResult{Party: party, Snapshot: snapshot}, nil
}

func (s *appService) CreateParty(ctx context.Context, role core.PartyRole, input core.PartyInput) (*PartyResult, error) {
	party, err := s.parties.Create(ctx, role, input)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.snapshots.GetByPartyID(ctx, party.ID)
	if err != nil {
		return nil, err
	}
	return &PartyResult{Party: party, Snapshot: snapshot}, nil
}

func (s *appService) UpdateParty(ctx context.Context, role core.PartyRole, id int, input core.PartyInput) (*PartyResult, error) {
	party, err := s.parties.Update(ctx, role, id, input)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.snapshots.GetByPartyID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PartyResult{Party: party, Snapshot: snapshot}, nil
}

func (s *appService) DeactivateParty(ctx context.Context, role core.PartyRole, id int) error {
	return s.parties.Deactivate(ctx, role, id)
}

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) CreateProduct(ctx context.Context, input core.ProductInput) (*core.Product, error) {
	return s.products.Create(ctx, input)
}

func (s *appService) DeactivateProduct(ctx context.Context, id int) error {
	return s.products.Deactivate(ctx, id)
}

func (s *appService) AppendTransaction(ctx context.Context, input core.TransactionInput) (*TransactionResult, error) {
	txn, err := s.transactions.Append(ctx, input)
	if err != nil {
		return nil, err
	}
	var snapshot *core.PaymentSnapshot
	if txn.PartyID != nil {
		snapshot, err = s.snapshots.GetByPartyID(ctx, *txn.PartyID)
		if err != nil {
			return nil, err
		}
	}
	return &TransactionResult{Transaction: txn, Snapshot: snapshot}, nil
}

func (s *appService) ListTransactions(ctx context.Context, filter core.TransactionFilter) (*TransactionListResult, error) {
	txns, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &TransactionListResult{Transactions: txns}, nil
}

func (s *appService) GetSnapshot(ctx context.Context, partyID int) (*core.PaymentSnapshot, error) {
	return s.snapshots.GetByPartyID(ctx, partyID)
}

func (s *appService) AdjustSnapshot(ctx context.Context, partyID int, adj core.SnapshotAdjustment) (*core.PaymentSnapshot, error) {
	return s.snapshots.Adjust(ctx, partyID, adj)
}

// parseLedgerRange turns the optional query-string bounds into a DateRange.
func parseLedgerRange(fromDate, toDate string) (*core.DateRange, error) {
	if fromDate == "" && toDate == "" {
		return nil, nil
	}
	period := &core.DateRange{}
	if fromDate != "" {
		from, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q: %w", fromDate, err)
		}
		period.From = &from
	}
	if toDate != "" {
		to, err := time.Parse("2006-01-02", toDate)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q: %w", toDate, err)
		}
		period.To = &to
	}
	return period, nil
}

func (s *appService) GetLedger(ctx context.Context, partyID int, fromDate, toDate string) (*core.LedgerStatement, error) {
	period, err := parseLedgerRange(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	party, err := s.parties.GetByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	var snapshot *core.PaymentSnapshot
	if party != nil {
		snapshot, err = s.snapshots.GetByPartyID(ctx, partyID)
		if err != nil {
			return nil, err
		}
	}

	txns, err := s.transactions.ListForLedger(ctx)
	if err != nil {
		return nil, err
	}

	return core.ComputeLedger(party, snapshot, txns, period), nil
}

func (s *appService) GetDailySummaries(ctx context.Context, fromDate, toDate string) (*DailySummaryResult, error) {
	days, err := s.summaries.DailySummaries(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return &DailySummaryResult{Days: days}, nil
}

func (s *appService) Reconcile(ctx context.Context) (*ReconciliationResult, error) {
	drifts, err := s.snapshots.ReconcileAll(ctx)
	if err != nil {
		return nil, err
	}
	return &ReconciliationResult{Drifts: drifts}, nil
}

// partyDirectory renders the active parties as prompt context for the agent.
func (s *appService) partyDirectory(ctx context.Context) (string, error) {
	var b strings.Builder
	for _, role := range []core.PartyRole{core.RoleCustomer, core.RoleSupplier} {
		parties, err := s.parties.List(ctx, role)
		if err != nil {
			return "", err
		}
		for _, p := range parties {
			fmt.Fprintf(&b, "- id=%d %s (%s)\n", p.ID, p.Name, role)
		}
	}
	return b.String(), nil
}

func (s *appService) InterpretEntry(ctx context.Context, text string) (*AssistantResult, error) {
	directory, err := s.partyDirectory(ctx)
	if err != nil {
		return nil, err
	}

	response, err := s.agent.InterpretEntry(ctx, text, directory)
	if err != nil {
		return nil, err
	}

	if response.IsClarificationRequest {
		return &AssistantResult{
			IsClarification:      true,
			ClarificationMessage: response.Clarification.Message,
		}, nil
	}
	return &AssistantResult{Proposal: response.Proposal}, nil
}

func (s *appService) CommitProposal(ctx context.Context, input core.TransactionInput) (*TransactionResult, error) {
	return s.AppendTransaction(ctx, input)
}

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*core.User, error) {
	return s.users.Authenticate(ctx, username, password)
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}
