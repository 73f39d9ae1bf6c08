package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/expenso-labs/receipt_workflow_app/internal/apperrors"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
)

// MockComplianceService is a mock type for the ComplianceSvcFacade interface
type MockComplianceService struct {
	mock.Mock
}

func (m *MockComplianceService) ValidateReimbursement(ctx context.Context, reimbursement *domain.Reimbursement, receipts []domain.Receipt) *domain.ValidationResult {
	args := m.Called(ctx, reimbursement, receipts)
	return args.Get(0).(*domain.ValidationResult)
}

type WorkflowServiceTestSuite struct {
	suite.Suite
	mockReimbursementRepo *MockReimbursementRepository
	mockReceiptRepo       *MockReceiptRepository
	mockComplianceSvc     *MockComplianceService
	mockNotifier          *MockNotifier
	service               portssvc.WorkflowSvcFacade
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.mockReimbursementRepo = new(MockReimbursementRepository)
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.mockComplianceSvc = new(MockComplianceService)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewWorkflowService(
		suite.mockReimbursementRepo,
		suite.mockReceiptRepo,
		suite.mockComplianceSvc,
		suite.mockNotifier,
	)
}

func reimbursementInState(id string, status domain.ReimbursementStatus) *domain.Reimbursement {
	r := &domain.Reimbursement{
		ReimbursementID: id,
		Title:           "March travel",
		Applicant:       "alice",
		Status:          status,
		TotalAmount:     decimal.RequireFromString("500.00"),
		ReceiptCount:    2,
	}
	r.CreatedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return r
}

func compliantResult() *domain.ValidationResult {
	return &domain.ValidationResult{IsCompliant: true, Score: 100, Issues: []domain.Issue{}, Warnings: []domain.Warning{}}
}

func (suite *WorkflowServiceTestSuite) TestCreateReimbursement_LinksReceiptsAndSumsTotals() {
	ctx := context.Background()
	r1 := &domain.Receipt{ReceiptID: "r-1", TotalAmount: decimalPtr("120.00"), TaxAmount: decimalPtr("12.00")}
	r2 := &domain.Receipt{ReceiptID: "r-2", Amount: decimalPtr("80.00")}

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "r-1").Return(r1, nil).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "r-2").Return(r2, nil).Once()
	suite.mockReimbursementRepo.On("SaveReimbursement", ctx, mock.AnythingOfType("domain.Reimbursement")).Return(nil).Once()
	suite.mockReceiptRepo.On("LinkReceipt", ctx, "r-1", mock.AnythingOfType("string"), "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReceiptRepo.On("LinkReceipt", ctx, "r-2", mock.AnythingOfType("string"), "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	req := dto.CreateReimbursementRequest{
		Title:      "March travel",
		Applicant:  "alice",
		ReceiptIDs: []string{"r-1", "r-2"},
	}
	created, err := suite.service.CreateReimbursement(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, created.Status)
	suite.Equal(2, created.ReceiptCount)
	suite.True(created.TotalAmount.Equal(decimal.RequireFromString("200.00")))
	suite.True(created.TaxAmount.Equal(decimal.RequireFromString("12.00")))
	suite.mockReceiptRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestCreateReimbursement_ReceiptAlreadyLinked() {
	ctx := context.Background()
	other := "rb-other"
	linked := &domain.Receipt{ReceiptID: "r-1", ReimbursementID: &other}

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "r-1").Return(linked, nil).Once()

	req := dto.CreateReimbursementRequest{Title: "t", Applicant: "a", ReceiptIDs: []string{"r-1"}}
	created, err := suite.service.CreateReimbursement(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyLinked)
	suite.Nil(created)
	suite.mockReimbursementRepo.AssertNotCalled(suite.T(), "SaveReimbursement", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestSubmitForApproval_Success() {
	ctx := context.Background()
	draft := reimbursementInState("rb-1", domain.StatusDraft)
	receipts := []domain.Receipt{{ReceiptID: "r-1"}}

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(draft, nil).Once()
	suite.mockReceiptRepo.On("FindReceiptsByReimbursementID", ctx, "rb-1").Return(receipts, nil).Once()
	suite.mockComplianceSvc.On("ValidateReimbursement", ctx, draft, receipts).Return(compliantResult()).Once()
	suite.mockReimbursementRepo.On("UpdateReimbursement", ctx, mock.MatchedBy(func(r domain.Reimbursement) bool {
		return r.Status == domain.StatusSubmitted && r.SubmittedAt != nil
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyStatusChange", ctx, mock.MatchedBy(func(e domain.StatusChangeEvent) bool {
		return e.Status == domain.StatusSubmitted && e.ReimbursementID == "rb-1"
	})).Return().Once()

	submitted, err := suite.service.SubmitForApproval(ctx, "rb-1", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSubmitted, submitted.Status)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestSubmitForApproval_BlockedByComplianceErrors() {
	ctx := context.Background()
	draft := reimbursementInState("rb-1", domain.StatusDraft)
	failed := &domain.ValidationResult{
		IsCompliant: false,
		Score:       60,
		Issues: []domain.Issue{
			{Code: domain.IssueNoReceipts, Message: "a reimbursement must contain at least one receipt", Severity: domain.SeverityError},
		},
	}

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(draft, nil).Once()
	suite.mockReceiptRepo.On("FindReceiptsByReimbursementID", ctx, "rb-1").Return([]domain.Receipt{}, nil).Once()
	suite.mockComplianceSvc.On("ValidateReimbursement", ctx, draft, mock.Anything).Return(failed).Once()

	submitted, err := suite.service.SubmitForApproval(ctx, "rb-1", "user-1")

	suite.Require().Error(err)
	var validationErr *apperrors.ValidationFailedError
	suite.ErrorAs(err, &validationErr)
	suite.Len(validationErr.Messages, 1)
	suite.Nil(submitted)
	suite.mockReimbursementRepo.AssertNotCalled(suite.T(), "UpdateReimbursement", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestSubmitForApproval_InvalidState() {
	ctx := context.Background()
	approved := reimbursementInState("rb-1", domain.StatusApproved)

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(approved, nil).Once()

	_, err := suite.service.SubmitForApproval(ctx, "rb-1", "user-1")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *WorkflowServiceTestSuite) TestApprove_FromSubmitted() {
	ctx := context.Background()
	submitted := reimbursementInState("rb-1", domain.StatusSubmitted)

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(submitted, nil).Once()
	suite.mockReimbursementRepo.On("UpdateReimbursement", ctx, mock.MatchedBy(func(r domain.Reimbursement) bool {
		return r.Status == domain.StatusApproved && r.ApprovedAt != nil && r.ApprovalComment == "looks good"
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyStatusChange", ctx, mock.Anything).Return().Once()

	approved, err := suite.service.Approve(ctx, "rb-1", "manager-1", "looks good")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.Equal("manager-1", approved.CurrentApprover)
}

func (suite *WorkflowServiceTestSuite) TestApprove_FromDraftFails() {
	ctx := context.Background()
	draft := reimbursementInState("rb-1", domain.StatusDraft)

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(draft, nil).Once()

	_, err := suite.service.Approve(ctx, "rb-1", "manager-1", "")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *WorkflowServiceTestSuite) TestReject_RequiresReason() {
	ctx := context.Background()

	_, err := suite.service.Reject(ctx, "rb-1", "manager-1", "   ")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReimbursementRepo.AssertNotCalled(suite.T(), "FindReimbursementByID", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestReject_FromSubmitted() {
	ctx := context.Background()
	submitted := reimbursementInState("rb-1", domain.StatusSubmitted)

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(submitted, nil).Once()
	suite.mockReimbursementRepo.On("UpdateReimbursement", ctx, mock.MatchedBy(func(r domain.Reimbursement) bool {
		return r.Status == domain.StatusRejected && r.RejectionReason == "no itinerary"
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyStatusChange", ctx, mock.Anything).Return().Once()

	rejected, err := suite.service.Reject(ctx, "rb-1", "manager-1", "no itinerary")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, rejected.Status)
	suite.NotNil(rejected.RejectedAt)
}

func (suite *WorkflowServiceTestSuite) TestReturnForRevisionThenResubmit() {
	ctx := context.Background()
	submitted := reimbursementInState("rb-1", domain.StatusSubmitted)

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(submitted, nil).Once()
	suite.mockReimbursementRepo.On("UpdateReimbursement", ctx, mock.MatchedBy(func(r domain.Reimbursement) bool {
		return r.Status == domain.StatusRevisionRequired && r.RevisionComment == "add the hotel invoice"
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyStatusChange", ctx, mock.Anything).Return().Twice()

	returned, err := suite.service.ReturnForRevision(ctx, "rb-1", "manager-1", "add the hotel invoice")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRevisionRequired, returned.Status)

	// Resubmission skips the compliance gate and bumps the revision counter.
	inRevision := reimbursementInState("rb-1", domain.StatusRevisionRequired)
	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(inRevision, nil).Once()
	suite.mockReimbursementRepo.On("UpdateReimbursement", ctx, mock.MatchedBy(func(r domain.Reimbursement) bool {
		return r.Status == domain.StatusSubmitted && r.RevisionCount == 1
	})).Return(nil).Once()

	resubmitted, err := suite.service.Resubmit(ctx, "rb-1", "user-1")
	suite.Require().NoError(err)
	suite.Equal(1, resubmitted.RevisionCount)
	suite.mockComplianceSvc.AssertNotCalled(suite.T(), "ValidateReimbursement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestCancel_FromDraft() {
	ctx := context.Background()
	draft := reimbursementInState("rb-1", domain.StatusDraft)

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(draft, nil).Once()
	suite.mockReimbursementRepo.On("UpdateReimbursement", ctx, mock.MatchedBy(func(r domain.Reimbursement) bool {
		return r.Status == domain.StatusCancelled && r.CancelledAt != nil
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyStatusChange", ctx, mock.Anything).Return().Once()

	cancelled, err := suite.service.Cancel(ctx, "rb-1", "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, cancelled.Status)
}

func (suite *WorkflowServiceTestSuite) TestCancel_FromSubmittedFails() {
	ctx := context.Background()
	submitted := reimbursementInState("rb-1", domain.StatusSubmitted)

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(submitted, nil).Once()

	_, err := suite.service.Cancel(ctx, "rb-1", "user-1")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *WorkflowServiceTestSuite) TestAddReceipt_UpdatesTotals() {
	ctx := context.Background()
	draft := reimbursementInState("rb-1", domain.StatusDraft)
	receipt := &domain.Receipt{ReceiptID: "r-3", TotalAmount: decimalPtr("75.50")}

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(draft, nil).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "r-3").Return(receipt, nil).Once()
	suite.mockReceiptRepo.On("LinkReceipt", ctx, "r-3", "rb-1", "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReimbursementRepo.On("UpdateReimbursement", ctx, mock.MatchedBy(func(r domain.Reimbursement) bool {
		return r.ReceiptCount == 3 && r.TotalAmount.Equal(decimal.RequireFromString("575.50"))
	})).Return(nil).Once()

	updated, err := suite.service.AddReceipt(ctx, "rb-1", "r-3", "user-1")

	suite.Require().NoError(err)
	suite.Equal(3, updated.ReceiptCount)
}

func (suite *WorkflowServiceTestSuite) TestRemoveReceipt_ClampsAtZero() {
	ctx := context.Background()
	draft := reimbursementInState("rb-1", domain.StatusDraft)
	draft.TotalAmount = decimal.RequireFromString("50.00")
	draft.ReceiptCount = 1
	receipt := &domain.Receipt{ReceiptID: "r-1", TotalAmount: decimalPtr("75.00")}

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(draft, nil).Once()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "r-1").Return(receipt, nil).Once()
	suite.mockReceiptRepo.On("UnlinkReceipt", ctx, "r-1", "rb-1", "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReimbursementRepo.On("UpdateReimbursement", ctx, mock.MatchedBy(func(r domain.Reimbursement) bool {
		return r.ReceiptCount == 0 && r.TotalAmount.IsZero()
	})).Return(nil).Once()

	updated, err := suite.service.RemoveReceipt(ctx, "rb-1", "r-1", "user-1")

	suite.Require().NoError(err)
	suite.True(updated.TotalAmount.IsZero(), "stale totals clamp at zero instead of going negative")
}

func (suite *WorkflowServiceTestSuite) TestAddReceipt_RejectedWhenSubmitted() {
	ctx := context.Background()
	submitted := reimbursementInState("rb-1", domain.StatusSubmitted)

	suite.mockReimbursementRepo.On("FindReimbursementByID", ctx, "rb-1").Return(submitted, nil).Once()

	_, err := suite.service.AddReceipt(ctx, "rb-1", "r-3", "user-1")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockReceiptRepo.AssertNotCalled(suite.T(), "LinkReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
