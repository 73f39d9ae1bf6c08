package services

import (
	portsrepo "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/expenso-labs/receipt_workflow_app/internal/core/ports/services"
)

// NewServiceContainer wires all application services from the repository
// provider and the optional notifier.
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	archiveSvc := NewArchiveNumberService(repos.ArchiveRepo)
	complianceSvc := NewComplianceService()

	return &portssvc.ServiceContainer{
		Receipt:       NewReceiptService(repos.ReceiptRepo),
		Rule:          NewRuleService(repos.RuleRepo),
		Classifier:    NewClassifierService(repos.ReceiptRepo, repos.RuleRepo, archiveSvc),
		ArchiveNumber: archiveSvc,
		Compliance:    complianceSvc,
		Workflow:      NewWorkflowService(repos.ReimbursementRepo, repos.ReceiptRepo, complianceSvc, notifier),
	}
}
