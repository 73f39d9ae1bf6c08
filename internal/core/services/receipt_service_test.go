package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/expenso-labs/receipt_workflow_app/internal/apperrors"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
)

type ReceiptServiceTestSuite struct {
	suite.Suite
	mockReceiptRepo *MockReceiptRepository
	service         portssvc.ReceiptSvcFacade
}

func (suite *ReceiptServiceTestSuite) SetupTest() {
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.service = services.NewReceiptService(suite.mockReceiptRepo)
}

func (suite *ReceiptServiceTestSuite) TestCreateReceipt_AppliesDefaults() {
	ctx := context.Background()

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.MatchedBy(func(r domain.Receipt) bool {
		return r.ReceiptID != "" &&
			r.ReceiptType == domain.ReceiptTypeOther &&
			r.OCRStatus == domain.OCRStatusPending &&
			r.ValidationState == domain.ValidationStatusUnchecked &&
			!r.Processed && r.Category == "" &&
			r.CreatedBy == "user-1" && !r.CreatedAt.IsZero()
	})).Return(nil).Once()

	receipt, err := suite.service.CreateReceipt(ctx, dto.CreateReceiptRequest{Merchant: "Corner Store"}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.ReceiptTypeOther, receipt.ReceiptType)
	suite.Equal(domain.OCRStatusPending, receipt.OCRStatus)
	suite.Equal("Corner Store", receipt.Merchant)
	suite.mockReceiptRepo.AssertExpectations(suite.T())
}

func (suite *ReceiptServiceTestSuite) TestCreateReceipt_KeepsProvidedFields() {
	ctx := context.Background()
	invoiceDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	req := dto.CreateReceiptRequest{
		ReceiptType: "DINING",
		TotalAmount: decimalPtr("256.50"),
		TaxAmount:   decimalPtr("23.30"),
		Merchant:    "Golden Dragon Restaurant",
		InvoiceDate: &invoiceDate,
		OCRStatus:   "COMPLETED",
		Attendees:   "Alice, Bob",
	}

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.Receipt")).Return(nil).Once()

	receipt, err := suite.service.CreateReceipt(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.ReceiptTypeDining, receipt.ReceiptType)
	suite.Equal(domain.OCRStatusCompleted, receipt.OCRStatus)
	suite.True(receipt.TotalAmount.Equal(*decimalPtr("256.50")))
	suite.Equal(&invoiceDate, receipt.InvoiceDate)
}

func (suite *ReceiptServiceTestSuite) TestCreateReceipt_SaveFailure() {
	ctx := context.Background()

	suite.mockReceiptRepo.On("SaveReceipt", ctx, mock.AnythingOfType("domain.Receipt")).
		Return(apperrors.ErrDuplicate).Once()

	receipt, err := suite.service.CreateReceipt(ctx, dto.CreateReceiptRequest{}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(receipt)
}

func (suite *ReceiptServiceTestSuite) TestGetReceiptByID() {
	ctx := context.Background()
	expected := &domain.Receipt{ReceiptID: "r-1", Merchant: "Corner Store"}

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "r-1").Return(expected, nil).Once()

	receipt, err := suite.service.GetReceiptByID(ctx, "r-1")

	suite.Require().NoError(err)
	suite.Equal(expected, receipt)
}

func (suite *ReceiptServiceTestSuite) TestGetReceiptByID_NotFound() {
	ctx := context.Background()

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetReceiptByID(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReceiptServiceTestSuite) TestListReceipts_PassesToken() {
	ctx := context.Background()
	token := "next-page"
	returned := "following-page"

	suite.mockReceiptRepo.On("ListReceipts", ctx, 20, &token).
		Return([]domain.Receipt{{ReceiptID: "r-1"}}, &returned, nil).Once()

	receipts, next, err := suite.service.ListReceipts(ctx, 20, &token)

	suite.Require().NoError(err)
	suite.Len(receipts, 1)
	suite.Equal(&returned, next)
}

func (suite *ReceiptServiceTestSuite) TestListReceipts_NilBecomesEmpty() {
	ctx := context.Background()

	suite.mockReceiptRepo.On("ListReceipts", ctx, 20, (*string)(nil)).Return(nil, nil, nil).Once()

	receipts, next, err := suite.service.ListReceipts(ctx, 20, nil)

	suite.Require().NoError(err)
	suite.NotNil(receipts)
	suite.Empty(receipts)
	suite.Nil(next)
}

func TestReceiptServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptServiceTestSuite))
}
