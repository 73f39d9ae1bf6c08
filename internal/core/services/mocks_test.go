package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
)

// MockReceiptRepository is a mock type for the ReceiptRepositoryWithTx interface
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) ListReceipts(ctx context.Context, limit int, nextToken *string) ([]domain.Receipt, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), token, args.Error(2)
}

func (m *MockReceiptRepository) FindReceiptsByReimbursementID(ctx context.Context, reimbursementID string) ([]domain.Receipt, error) {
	args := m.Called(ctx, reimbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) UpdateReceipt(ctx context.Context, receipt domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) UpdateReceiptInTx(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error {
	args := m.Called(ctx, tx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) LinkReceipt(ctx context.Context, receiptID, reimbursementID, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, receiptID, reimbursementID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockReceiptRepository) UnlinkReceipt(ctx context.Context, receiptID, reimbursementID, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, receiptID, reimbursementID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockReceiptRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockReceiptRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockReceiptRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockRuleRepository is a mock type for the RuleRepositoryWithTx interface
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ClassificationRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassificationRule), args.Error(1)
}

func (m *MockRuleRepository) ListRules(ctx context.Context) ([]domain.ClassificationRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassificationRule), args.Error(1)
}

func (m *MockRuleRepository) ListEnabledRules(ctx context.Context) ([]domain.ClassificationRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassificationRule), args.Error(1)
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.ClassificationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) UpdateRule(ctx context.Context, rule domain.ClassificationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) UpdateRuleInTx(ctx context.Context, tx pgx.Tx, rule domain.ClassificationRule) error {
	args := m.Called(ctx, tx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) DeleteRule(ctx context.Context, ruleID string) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}

func (m *MockRuleRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRuleRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRuleRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockReimbursementRepository is a mock type for the ReimbursementRepositoryFacade interface
type MockReimbursementRepository struct {
	mock.Mock
}

func (m *MockReimbursementRepository) FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	args := m.Called(ctx, reimbursementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reimbursement), args.Error(1)
}

func (m *MockReimbursementRepository) ListReimbursements(ctx context.Context, limit int, nextToken *string) ([]domain.Reimbursement, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.Reimbursement), token, args.Error(2)
}

func (m *MockReimbursementRepository) SaveReimbursement(ctx context.Context, reimbursement domain.Reimbursement) error {
	args := m.Called(ctx, reimbursement)
	return args.Error(0)
}

func (m *MockReimbursementRepository) UpdateReimbursement(ctx context.Context, reimbursement domain.Reimbursement) error {
	args := m.Called(ctx, reimbursement)
	return args.Error(0)
}

// MockArchiveSequenceRepository is a mock type for the ArchiveSequenceRepository interface
type MockArchiveSequenceRepository struct {
	mock.Mock
}

func (m *MockArchiveSequenceRepository) NextSerial(ctx context.Context, year, month int, categoryCode string) (int64, error) {
	args := m.Called(ctx, year, month, categoryCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArchiveSequenceRepository) NextSerialInTx(ctx context.Context, tx pgx.Tx, year, month int, categoryCode string) (int64, error) {
	args := m.Called(ctx, tx, year, month, categoryCode)
	return args.Get(0).(int64), args.Error(1)
}

// MockArchiveNumberService is a mock type for the ArchiveNumberSvcFacade interface
type MockArchiveNumberService struct {
	mock.Mock
}

func (m *MockArchiveNumberService) Generate(ctx context.Context, receipt *domain.Receipt) (string, error) {
	args := m.Called(ctx, receipt)
	return args.String(0), args.Error(1)
}

func (m *MockArchiveNumberService) GenerateInTx(ctx context.Context, tx pgx.Tx, receipt *domain.Receipt) (string, error) {
	args := m.Called(ctx, tx, receipt)
	return args.String(0), args.Error(1)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyStatusChange(ctx context.Context, event domain.StatusChangeEvent) {
	m.Called(ctx, event)
}
