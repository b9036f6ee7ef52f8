package container

import (
	"fmt"

	"github.com/garyjia/payroll-console/internal/application/dispatcher"
	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/application/workflow"
	"github.com/garyjia/payroll-console/internal/config"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/garyjia/payroll-console/internal/infrastructure/authz"
	"github.com/garyjia/payroll-console/internal/infrastructure/export"
	"github.com/garyjia/payroll-console/internal/infrastructure/external/lark"
	"github.com/garyjia/payroll-console/internal/infrastructure/external/payrollapi"
	"github.com/garyjia/payroll-console/internal/infrastructure/pdfpreview"
	"github.com/garyjia/payroll-console/internal/infrastructure/worker"
	httpserver "github.com/garyjia/payroll-console/internal/interfaces/http"
	"github.com/garyjia/payroll-console/pkg/utils"
	"go.uber.org/zap"
)

// LarkBundle holds the Lark components. It is nil when Lark is not configured.
type LarkBundle struct {
	Client    *lark.SDKClient
	Messenger port.ChatMessenger
	ChatID    string
}

// DocumentBundle holds the export and preview adapters.
type DocumentBundle struct {
	Spreadsheet port.Spreadsheet
	Previewer   port.DocumentPreviewer
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	API        port.PayrollAPI
	Authorizer port.PageAuthorizer
	Documents  *DocumentBundle
	Events     port.EventPublisher
	Config     *config.Config
	Logger     *zap.Logger
}

// ProvidePayrollAPI creates the payroll backend client.
func ProvidePayrollAPI(cfg *config.Config, logger *zap.Logger) (*payrollapi.Client, error) {
	client, err := payrollapi.NewClient(payrollAPIConfig(cfg), logger.Named("payrollapi"))
	if err != nil {
		return nil, fmt.Errorf("failed to create payroll API client: %w", err)
	}
	logger.Info("Payroll API client created", zap.String("base_url", client.BaseURL()))
	return client, nil
}

// ProvideAuthorizer loads the page policy.
func ProvideAuthorizer(cfg *config.Config, logger *zap.Logger) (*authz.Authorizer, error) {
	authorizer, err := authz.NewAuthorizer(cfg.Authz.PolicyPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Page policy loaded", zap.String("policy_path", cfg.Authz.PolicyPath))
	return authorizer, nil
}

// ProvideDocuments creates the spreadsheet exporter and the PDF previewer.
func ProvideDocuments(logger *zap.Logger) *DocumentBundle {
	return &DocumentBundle{
		Spreadsheet: export.NewSpreadsheet(logger.Named("export")),
		Previewer:   pdfpreview.NewPreviewer(pdfpreview.DefaultDPI, logger.Named("pdfpreview")),
	}
}

// ProvideLark creates the Lark client and messenger, or returns nil when
// Lark is not configured.
func ProvideLark(cfg *config.Config, logger *zap.Logger) *LarkBundle {
	if !larkEnabled(cfg) {
		logger.Info("Lark not configured, chat notifications disabled")
		return nil
	}

	client := lark.NewSDKClient(larkConfig(cfg), logger.Named("lark"))
	return &LarkBundle{
		Client:    client,
		Messenger: lark.NewMessenger(client, logger.Named("lark")),
		ChatID:    cfg.Lark.FinanceChatID,
	}
}

// ProvideDispatcher creates the event dispatcher. When Lark is configured
// every mutation event is forwarded to the finance chat.
func ProvideDispatcher(larkBundle *LarkBundle, logger *zap.Logger) dispatcher.Dispatcher {
	disp := dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewKeyValueLogger(logger.Named("dispatcher"))))

	if larkBundle != nil {
		notifier := lark.NewEventNotifier(larkBundle.Messenger, larkBundle.ChatID, logger.Named("lark"))
		disp.SubscribeNamed(dispatcher.AllEvents, "lark_event_notifier", notifier.Handle)
		logger.Info("Lark event notifier subscribed", zap.String("chat_id", larkBundle.ChatID))
	}

	return disp
}

// ProvideServices creates every application service and groups them the way
// the HTTP layer consumes them.
func ProvideServices(deps *ServiceDeps) (httpserver.Services, error) {
	if deps == nil || deps.API == nil {
		return httpserver.Services{}, fmt.Errorf("payroll API is required")
	}
	if deps.Documents == nil {
		return httpserver.Services{}, fmt.Errorf("document adapters are required")
	}

	log := utils.NewKeyValueLogger(deps.Logger.Named("service"))
	submitter := workflow.NewSubmitter(workflow.NewInFlight())

	misconductTimeout := service.DefaultMisconductTimeout
	if deps.Config != nil && deps.Config.PayrollAPI.MisconductTimeout > 0 {
		misconductTimeout = deps.Config.PayrollAPI.MisconductTimeout
	}

	return httpserver.Services{
		Gate:     service.NewGate(deps.API, deps.Authorizer, log),
		Claims:   service.NewClaimService(deps.API, submitter, deps.Events, log),
		Disputes: service.NewDisputeService(deps.API, submitter, deps.Events, log),

		ClaimsSpecialist:   service.NewReviewService[entity.Claim](workflow.ClaimsSpecialistReview, deps.API, submitter, deps.Events, log),
		ClaimsManager:      service.NewReviewService[entity.Claim](workflow.ClaimsManagerReview, deps.API, submitter, deps.Events, log),
		DisputesSpecialist: service.NewReviewService[entity.Dispute](workflow.DisputesSpecialistReview, deps.API, submitter, deps.Events, log),
		DisputesManager:    service.NewReviewService[entity.Dispute](workflow.DisputesManagerReview, deps.API, submitter, deps.Events, log),

		Refunds:       service.NewRefundService(deps.API, deps.Documents.Spreadsheet, submitter, deps.Events, log),
		Notifications: service.NewNotificationService(deps.API, log),
		Reports:       service.NewReportService(deps.API, deps.Documents.Spreadsheet, log),
		Payslips:      service.NewPayslipService(deps.API, deps.Documents.Previewer, log),
		Deductions:    service.NewDeductionService(deps.API, misconductTimeout, log),
		Payroll:       service.NewPayrollService(deps.API, log),
	}, nil
}

// ProvideServer creates the HTTP server.
func ProvideServer(cfg *config.Config, services httpserver.Services, logger *zap.Logger) (*httpserver.Server, error) {
	server, err := httpserver.NewServer(serverConfig(cfg), services, utils.NewKeyValueLogger(logger.Named("http")))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}
	return server, nil
}

// ProvideWorkers creates the worker manager and registers the finance
// notification poller when the notifier is enabled.
func ProvideWorkers(cfg *config.Config, source worker.NotificationSource, larkBundle *LarkBundle, logger *zap.Logger) *worker.WorkerManager {
	manager := worker.NewWorkerManager(logger.Named("worker"))

	if !cfg.Notifier.Enabled {
		return manager
	}
	if larkBundle == nil {
		logger.Warn("Notifier enabled but Lark is not configured, poller not registered")
		return manager
	}

	poller := worker.NewNotificationPoller(pollerConfig(cfg), source, larkBundle.Messenger, logger.Named("worker"))
	if err := manager.Register(poller); err != nil {
		logger.Error("Failed to register notification poller", zap.Error(err))
	}
	return manager
}
