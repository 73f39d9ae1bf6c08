package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/services"
)

type ArchiveNumberServiceTestSuite struct {
	suite.Suite
	mockRepo *MockArchiveSequenceRepository
	service  portssvc.ArchiveNumberSvcFacade
}

func (suite *ArchiveNumberServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockArchiveSequenceRepository)
	suite.service = services.NewArchiveNumberService(suite.mockRepo)
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (suite *ArchiveNumberServiceTestSuite) TestGenerate_FormatsFromInvoiceDate() {
	ctx := context.Background()
	invoiceDate := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	receipt := &domain.Receipt{
		ReceiptID:   "r-1",
		Category:    domain.CategoryExpense,
		InvoiceDate: &invoiceDate,
		TotalAmount: decimalPtr("120.00"),
	}

	suite.mockRepo.On("NextSerial", ctx, 2024, 3, "EXP").Return(int64(1), nil).Once()

	archiveNumber, err := suite.service.Generate(ctx, receipt)

	suite.Require().NoError(err)
	suite.Equal("2024-03-EXP-0001", archiveNumber)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ArchiveNumberServiceTestSuite) TestGenerate_FallsBackToCreationDate() {
	ctx := context.Background()
	receipt := &domain.Receipt{
		ReceiptID: "r-2",
		Category:  domain.CategoryFood,
	}
	receipt.CreatedAt = time.Date(2025, 11, 2, 8, 30, 0, 0, time.UTC)

	suite.mockRepo.On("NextSerial", ctx, 2025, 11, "FOD").Return(int64(42), nil).Once()

	archiveNumber, err := suite.service.Generate(ctx, receipt)

	suite.Require().NoError(err)
	suite.Equal("2025-11-FOD-0042", archiveNumber)
}

func (suite *ArchiveNumberServiceTestSuite) TestGenerate_UnknownCategoryUsesOtherCode() {
	ctx := context.Background()
	invoiceDate := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	receipt := &domain.Receipt{ReceiptID: "r-3", InvoiceDate: &invoiceDate}

	suite.mockRepo.On("NextSerial", ctx, 2024, 7, "OTH").Return(int64(10000), nil).Once()

	archiveNumber, err := suite.service.Generate(ctx, receipt)

	suite.Require().NoError(err)
	// Serials past 9999 widen the field instead of wrapping.
	suite.Equal("2024-07-OTH-10000", archiveNumber)
}

func (suite *ArchiveNumberServiceTestSuite) TestGenerate_RepositoryError() {
	ctx := context.Background()
	invoiceDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	receipt := &domain.Receipt{ReceiptID: "r-4", Category: domain.CategoryExpense, InvoiceDate: &invoiceDate}

	suite.mockRepo.On("NextSerial", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection lost")).Once()

	archiveNumber, err := suite.service.Generate(ctx, receipt)

	suite.Require().Error(err)
	suite.Empty(archiveNumber)
}

func (suite *ArchiveNumberServiceTestSuite) TestGenerateInTx_UsesTransactionCounter() {
	ctx := context.Background()
	invoiceDate := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	receipt := &domain.Receipt{
		ReceiptID:   "r-5",
		Category:    domain.CategoryExpense,
		InvoiceDate: &invoiceDate,
		TotalAmount: decimalPtr("120.00"),
	}

	suite.mockRepo.On("NextSerialInTx", ctx, mock.Anything, 2024, 3, "EXP").Return(int64(7), nil).Once()

	archiveNumber, err := suite.service.GenerateInTx(ctx, nil, receipt)

	suite.Require().NoError(err)
	suite.Equal("2024-03-EXP-0007", archiveNumber)
	suite.mockRepo.AssertNotCalled(suite.T(), "NextSerial", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestArchiveNumberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArchiveNumberServiceTestSuite))
}
