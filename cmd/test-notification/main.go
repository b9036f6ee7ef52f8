package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/application/service"
	"github.com/garyjia/payroll-console/internal/config"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/garyjia/payroll-console/internal/infrastructure/external/lark"
	"github.com/garyjia/payroll-console/internal/infrastructure/external/payrollapi"
	"github.com/garyjia/payroll-console/internal/infrastructure/worker"
	"github.com/garyjia/payroll-console/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sends a finance notification to the configured Lark chat without running
// the console. With -live the notifications are read from the payroll backend
// using the notifier's service cookie; otherwise a sample is sent.

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	chatID := flag.String("chat", "", "chat id to send to (defaults to lark.finance_chat_id)")
	live := flag.Bool("live", false, "send the newest notification from the payroll backend")
	flag.Parse()

	fmt.Println("=== Finance Notification Test ===")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Lark.AppID == "" || cfg.Lark.AppSecret == "" {
		log.Fatal("lark.app_id and lark.app_secret are required")
	}

	target := *chatID
	if target == "" {
		target = cfg.Lark.FinanceChatID
	}
	if target == "" {
		log.Fatal("No chat id: pass -chat or set lark.finance_chat_id")
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "debug", Format: "console"})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Step 1: pick the notification to send
	fmt.Println("\n[Step 1] Building notification...")
	notification := sampleNotification()
	if *live {
		n, err := newestNotification(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("Failed to read notifications: %v", err)
		}
		if n == nil {
			fmt.Println("No approved records are awaiting refund. Nothing to send.")
			os.Exit(0)
		}
		notification = *n
	}
	text := worker.FormatNotification(notification)
	fmt.Println(text)

	// Step 2: send it
	fmt.Printf("\n[Step 2] Sending to chat %s...\n", target)
	client := lark.NewSDKClient(lark.Config{
		AppID:     cfg.Lark.AppID,
		AppSecret: cfg.Lark.AppSecret,
		Timeout:   cfg.Lark.APITimeout,
	}, logger)
	messenger := lark.NewMessenger(client, logger)

	if err := messenger.SendText(ctx, target, text); err != nil {
		fmt.Printf("✗ Failed to send message: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Message sent")

	fmt.Println("\n=== Test Complete ===")
}

func sampleNotification() entity.Notification {
	return entity.Notification{
		ID:              "dispute-sample",
		Type:            entity.NotificationDisputeApproved,
		Title:           "Dispute Approved",
		Description:     "Sample dispute approved by the payroll manager",
		RecordID:        "sample",
		RecordDisplayID: "DISP-0001",
		EmployeeDisplay: "EMP-0001",
		Amount:          150,
		CreatedAt:       time.Now(),
	}
}

func newestNotification(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*entity.Notification, error) {
	if cfg.Notifier.ServiceCookie == "" {
		return nil, fmt.Errorf("notifier.service_cookie is required with -live")
	}

	api, err := payrollapi.NewClient(payrollapi.Config{
		BaseURL: cfg.PayrollAPI.BaseURL,
		Timeout: cfg.PayrollAPI.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	ctx = port.WithSession(ctx, port.Session{
		Cookie:    cfg.Notifier.ServiceCookie,
		RequestID: uuid.NewString(),
	})

	notifications, err := service.NewNotificationService(api, utils.NewKeyValueLogger(logger)).Approved(ctx)
	if err != nil {
		return nil, err
	}
	if len(notifications) == 0 {
		return nil, nil
	}
	return &notifications[0], nil
}
