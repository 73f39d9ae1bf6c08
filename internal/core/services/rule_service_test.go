package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/expenso-labs/receipt_workflow_app/internal/apperrors"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/domain"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/core/services"
	"github.com/expenso-labs/receipt_workflow_app/internal/dto"
)

type RuleServiceTestSuite struct {
	suite.Suite
	mockRuleRepo *MockRuleRepository
	service      portssvc.RuleSvcFacade
}

func (suite *RuleServiceTestSuite) SetupTest() {
	suite.mockRuleRepo = new(MockRuleRepository)
	suite.service = services.NewRuleService(suite.mockRuleRepo)
}

func validCreateRuleRequest() dto.CreateRuleRequest {
	return dto.CreateRuleRequest{
		Name:     "dining to food",
		Priority: 10,
		Conditions: []dto.ConditionRequest{
			{Field: "RECEIPT_TYPE", Operator: "EQUALS", Value: "DINING"},
		},
		Actions: []dto.ActionRequest{
			{Type: "SET_CATEGORY", Value: "FOOD"},
			{Type: "APPEND_TAG", Value: "meal"},
		},
	}
}

func (suite *RuleServiceTestSuite) TestCreateRule_Success() {
	ctx := context.Background()

	suite.mockRuleRepo.On("SaveRule", ctx, mock.MatchedBy(func(r domain.ClassificationRule) bool {
		return r.RuleID != "" && r.Enabled && r.SortOrder > 0 &&
			r.CreatedBy == "user-1" && !r.CreatedAt.IsZero()
	})).Return(nil).Once()

	rule, err := suite.service.CreateRule(ctx, validCreateRuleRequest(), "user-1")

	suite.Require().NoError(err)
	suite.True(rule.Enabled, "rules default to enabled")
	suite.Equal(10, rule.Priority)
	suite.Len(rule.Conditions, 1)
	suite.Len(rule.Actions, 2)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestCreateRule_ExplicitlyDisabled() {
	ctx := context.Background()
	disabled := false
	req := validCreateRuleRequest()
	req.Enabled = &disabled

	suite.mockRuleRepo.On("SaveRule", ctx, mock.MatchedBy(func(r domain.ClassificationRule) bool {
		return !r.Enabled
	})).Return(nil).Once()

	rule, err := suite.service.CreateRule(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.False(rule.Enabled)
}

func (suite *RuleServiceTestSuite) TestCreateRule_InvalidRegexRejected() {
	ctx := context.Background()
	req := validCreateRuleRequest()
	req.Conditions = []dto.ConditionRequest{
		{Field: "MERCHANT", Operator: "REGEX", Value: "([unterminated"},
	}

	rule, err := suite.service.CreateRule(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(rule)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestCreateRule_UnknownCategoryRejected() {
	ctx := context.Background()
	req := validCreateRuleRequest()
	req.Actions = []dto.ActionRequest{{Type: "SET_CATEGORY", Value: "SNACKS"}}

	_, err := suite.service.CreateRule(ctx, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestUpdateRule_PreservesSortOrderAndCreation() {
	ctx := context.Background()
	existing := &domain.ClassificationRule{
		RuleID:    "rule-1",
		Name:      "old name",
		Priority:  5,
		Enabled:   true,
		SortOrder: 1234567890,
	}
	existing.CreatedBy = "user-0"

	suite.mockRuleRepo.On("FindRuleByID", ctx, "rule-1").Return(existing, nil).Once()
	suite.mockRuleRepo.On("UpdateRule", ctx, mock.MatchedBy(func(r domain.ClassificationRule) bool {
		return r.Name == "new name" && r.Priority == 1 &&
			r.SortOrder == 1234567890 && r.CreatedBy == "user-0" &&
			r.LastUpdatedBy == "user-2"
	})).Return(nil).Once()

	req := dto.UpdateRuleRequest{Name: "new name", Priority: 1}
	updated, err := suite.service.UpdateRule(ctx, "rule-1", req, "user-2")

	suite.Require().NoError(err)
	suite.Equal("new name", updated.Name)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestUpdateRule_NotFound() {
	ctx := context.Background()

	suite.mockRuleRepo.On("FindRuleByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateRule(ctx, "missing", dto.UpdateRuleRequest{Name: "x"}, "user-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RuleServiceTestSuite) TestToggleRule() {
	ctx := context.Background()
	existing := &domain.ClassificationRule{RuleID: "rule-1", Name: "dining to food", Enabled: true}

	suite.mockRuleRepo.On("FindRuleByID", ctx, "rule-1").Return(existing, nil).Once()
	suite.mockRuleRepo.On("UpdateRule", ctx, mock.MatchedBy(func(r domain.ClassificationRule) bool {
		return !r.Enabled && r.Name == "dining to food"
	})).Return(nil).Once()

	toggled, err := suite.service.ToggleRule(ctx, "rule-1", false, "user-1")

	suite.Require().NoError(err)
	suite.False(toggled.Enabled)
}

func (suite *RuleServiceTestSuite) TestReorderRules_MissingRuleFailsBeforeAnyWrite() {
	ctx := context.Background()
	first := &domain.ClassificationRule{RuleID: "rule-1", Name: "a"}

	suite.mockRuleRepo.On("FindRuleByID", ctx, "rule-1").Return(first, nil).Once()
	suite.mockRuleRepo.On("FindRuleByID", ctx, "rule-missing").Return(nil, apperrors.ErrNotFound).Once()

	req := dto.ReorderRulesRequest{Assignments: []dto.RulePriorityAssignment{
		{RuleID: "rule-1", Priority: 1},
		{RuleID: "rule-missing", Priority: 2},
	}}
	err := suite.service.ReorderRules(ctx, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "UpdateRuleInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestReorderRules_AssignsPriorities() {
	ctx := context.Background()
	first := &domain.ClassificationRule{RuleID: "rule-1", Name: "a", Priority: 9}
	second := &domain.ClassificationRule{RuleID: "rule-2", Name: "b", Priority: 1}

	suite.mockRuleRepo.On("FindRuleByID", ctx, "rule-1").Return(first, nil).Once()
	suite.mockRuleRepo.On("FindRuleByID", ctx, "rule-2").Return(second, nil).Once()
	suite.mockRuleRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockRuleRepo.On("UpdateRuleInTx", ctx, mock.Anything, mock.MatchedBy(func(r domain.ClassificationRule) bool {
		return r.RuleID == "rule-1" && r.Priority == 1
	})).Return(nil).Once()
	suite.mockRuleRepo.On("UpdateRuleInTx", ctx, mock.Anything, mock.MatchedBy(func(r domain.ClassificationRule) bool {
		return r.RuleID == "rule-2" && r.Priority == 2
	})).Return(nil).Once()
	suite.mockRuleRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockRuleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	req := dto.ReorderRulesRequest{Assignments: []dto.RulePriorityAssignment{
		{RuleID: "rule-1", Priority: 1},
		{RuleID: "rule-2", Priority: 2},
	}}
	err := suite.service.ReorderRules(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestReorderRules_FailedWriteRollsBack() {
	ctx := context.Background()
	first := &domain.ClassificationRule{RuleID: "rule-1", Name: "a", Priority: 9}
	second := &domain.ClassificationRule{RuleID: "rule-2", Name: "b", Priority: 1}
	writeErr := errors.New("connection reset")

	suite.mockRuleRepo.On("FindRuleByID", ctx, "rule-1").Return(first, nil).Once()
	suite.mockRuleRepo.On("FindRuleByID", ctx, "rule-2").Return(second, nil).Once()
	suite.mockRuleRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockRuleRepo.On("UpdateRuleInTx", ctx, mock.Anything, mock.MatchedBy(func(r domain.ClassificationRule) bool {
		return r.RuleID == "rule-1"
	})).Return(nil).Once()
	suite.mockRuleRepo.On("UpdateRuleInTx", ctx, mock.Anything, mock.MatchedBy(func(r domain.ClassificationRule) bool {
		return r.RuleID == "rule-2"
	})).Return(writeErr).Once()
	suite.mockRuleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	req := dto.ReorderRulesRequest{Assignments: []dto.RulePriorityAssignment{
		{RuleID: "rule-1", Priority: 1},
		{RuleID: "rule-2", Priority: 2},
	}}
	err := suite.service.ReorderRules(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, writeErr)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestDeleteRule() {
	ctx := context.Background()

	suite.mockRuleRepo.On("DeleteRule", ctx, "rule-1").Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteRule(ctx, "rule-1"))
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestListRules_NilBecomesEmpty() {
	ctx := context.Background()

	suite.mockRuleRepo.On("ListRules", ctx).Return(nil, nil).Once()

	rules, err := suite.service.ListRules(ctx)

	suite.Require().NoError(err)
	suite.NotNil(rules)
	suite.Empty(rules)
}

func TestRuleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RuleServiceTestSuite))
}
