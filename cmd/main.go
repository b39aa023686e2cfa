package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"gakkaihub/internal/caching"
	"gakkaihub/internal/config"
	"gakkaihub/internal/handlers"
	"gakkaihub/internal/jobs/background"
	"gakkaihub/internal/middleware"
	"gakkaihub/internal/repositories"
	"gakkaihub/internal/services"
	"gakkaihub/internal/storage"
	"gakkaihub/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(context.Background(), cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	fileStore, err := storage.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := fileStore.EnsureBucketExists(context.Background(), cfg.Minio.Bucket); err != nil {
		log.Printf("WARN: could not ensure bucket %s exists: %v", cfg.Minio.Bucket, err)
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	societyRepo := repositories.NewSocietyRepo(pool)
	membershipRepo := repositories.NewMembershipRepo(pool)
	memberRepo := repositories.NewMemberRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	receiptRepo := repositories.NewReceiptRepo(pool)
	templateRepo := repositories.NewEmailTemplateRepo(pool)
	approvalRepo := repositories.NewEmailApprovalRepo(pool)
	sendLogRepo := repositories.NewEmailSendLogRepo(pool)
	meetingRepo := repositories.NewMeetingRepo(pool)
	shipmentRepo := repositories.NewShipmentRepo(pool)
	archiveRepo := repositories.NewArchiveRepo(pool)
	planRepo := repositories.NewPlanRepo(pool)
	auditRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	accessSvc := services.NewAccessService(membershipRepo)
	auditSvc := services.NewAuditService(auditRepo, accessSvc)
	adminSvc := services.NewSocietyAdminService(societyRepo, membershipRepo, userRepo, accessSvc, auditSvc)
	memberSvc := services.NewMemberService(memberRepo, invoiceRepo, accessSvc, auditSvc)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, receiptRepo, memberRepo, societyRepo, fileStore, cfg.Minio.Bucket, accessSvc, auditSvc)
	emailSvc := services.NewEmailService(templateRepo, approvalRepo, sendLogRepo, invoiceRepo, societyRepo, accessSvc, auditSvc)
	meetingSvc := services.NewMeetingService(meetingRepo, memberRepo, accessSvc, auditSvc)
	shipmentSvc := services.NewShipmentService(shipmentRepo, memberRepo, accessSvc, auditSvc)
	archiveSvc := services.NewArchiveService(archiveRepo, accessSvc, auditSvc)
	settingsSvc := services.NewSettingsService(planRepo, societyRepo, membershipRepo, userRepo, accessSvc, auditSvc)
	dashboardSvc := services.NewDashboardService(memberRepo, invoiceRepo, meetingRepo, shipmentRepo, cacheSvc, accessSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(invoiceSvc, societyRepo, time.Duration(cfg.Jobs.OverdueSweepMinutes)*time.Minute)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}

	// Handlers
	adminHandlers := handlers.NewAdminHandlers(adminSvc)
	memberHandlers := handlers.NewMemberHandlers(memberSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc)
	emailHandlers := handlers.NewEmailHandlers(emailSvc)
	meetingHandlers := handlers.NewMeetingHandlers(meetingSvc)
	shipmentHandlers := handlers.NewShipmentHandlers(shipmentSvc)
	archiveHandlers := handlers.NewArchiveHandlers(archiveSvc)
	settingsHandlers := handlers.NewSettingsHandlers(settingsSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	auditHandlers := handlers.NewAuditHandlers(auditSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, fileStore, cfg.Minio.Bucket, scheduler)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints, no auth required
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}))
	v1.Use(middleware.ActorContext(userRepo))

	// Operator console. Access is enforced per-operation in the services.
	admin := v1.Group("/admin")
	admin.GET("/societies", adminHandlers.ListSocieties)
	admin.POST("/societies", adminHandlers.CreateSociety)
	admin.GET("/societies/:id", adminHandlers.GetSociety)
	admin.PUT("/societies/:id", adminHandlers.UpdateSociety)
	admin.DELETE("/societies/:id", adminHandlers.DeleteSociety)
	admin.GET("/societies/:id/staff", adminHandlers.ListStaff)
	admin.POST("/societies/:id/staff", adminHandlers.AssignStaff)
	admin.DELETE("/societies/:id/staff/:userId", adminHandlers.RemoveStaff)
	admin.GET("/users", adminHandlers.ListUsers)
	admin.POST("/users", adminHandlers.CreateUser)
	admin.GET("/jobs", healthHandlers.JobStatus)

	// Society-scoped routes. Role checks happen in the access service from
	// the societyId path param.
	soc := v1.Group("/societies/:societyId")

	soc.GET("/members", memberHandlers.List)
	soc.POST("/members", memberHandlers.Create)
	soc.GET("/members/export", memberHandlers.ExportCSV)
	soc.GET("/members/:id", memberHandlers.Get)
	soc.PUT("/members/:id", memberHandlers.Update)

	soc.POST("/invoices/generate", invoiceHandlers.Generate)
	soc.GET("/invoices", invoiceHandlers.List)
	soc.POST("/invoices/mark-overdue", invoiceHandlers.MarkOverdue)
	soc.GET("/invoices/:id", invoiceHandlers.Get)
	soc.PUT("/invoices/:id", invoiceHandlers.Update)
	soc.POST("/invoices/:id/receipt", invoiceHandlers.IssueReceipt)
	soc.GET("/invoices/:id/receipt", invoiceHandlers.GetReceipt)

	soc.PUT("/email/templates", emailHandlers.UpsertTemplate)
	soc.GET("/email/templates", emailHandlers.ListTemplates)
	soc.GET("/email/templates/:key", emailHandlers.GetTemplate)
	soc.POST("/email/preview", emailHandlers.Preview)
	soc.POST("/email/approvals", emailHandlers.CreateApproval)
	soc.GET("/email/approvals", emailHandlers.ListApprovals)
	soc.GET("/email/approvals/:id", emailHandlers.GetApproval)
	soc.GET("/email/approvals/:id/logs", emailHandlers.ListSendLogs)
	soc.POST("/email/approvals/:id/enqueue", emailHandlers.EnqueueRecipients)
	soc.POST("/email/approvals/:id/approve", emailHandlers.Approve)
	soc.POST("/email/approvals/:id/send", emailHandlers.Send)

	soc.GET("/meetings", meetingHandlers.List)
	soc.POST("/meetings", meetingHandlers.Create)
	soc.PUT("/meetings/tasks/:taskId", meetingHandlers.UpdateTaskStatus)
	soc.GET("/meetings/:id", meetingHandlers.Get)
	soc.PUT("/meetings/:id", meetingHandlers.Update)
	soc.POST("/meetings/:id/attendance", meetingHandlers.AddAttendance)
	soc.GET("/meetings/:id/attendance", meetingHandlers.ListAttendance)
	soc.POST("/meetings/:id/documents", meetingHandlers.AddDocument)
	soc.GET("/meetings/:id/documents", meetingHandlers.ListDocuments)
	soc.PUT("/meetings/:id/minutes", meetingHandlers.UpsertMinutes)
	soc.GET("/meetings/:id/minutes", meetingHandlers.GetMinutes)
	soc.POST("/meetings/:id/tasks", meetingHandlers.AddTask)
	soc.GET("/meetings/:id/tasks", meetingHandlers.ListTasks)
	soc.POST("/meetings/:id/decisions", meetingHandlers.AddDecision)
	soc.GET("/meetings/:id/decisions", meetingHandlers.ListDecisions)

	soc.POST("/shipments", shipmentHandlers.CreateBatch)
	soc.GET("/shipments", shipmentHandlers.ListBatches)
	soc.GET("/shipments/:id", shipmentHandlers.GetBatch)
	soc.GET("/shipments/:id/recipients", shipmentHandlers.ListRecipients)
	soc.PUT("/shipments/:id/recipients/:recipientId", shipmentHandlers.UpdateRecipientStatus)

	soc.POST("/archives", archiveHandlers.Create)
	soc.GET("/archives", archiveHandlers.List)

	soc.PUT("/settings/plan", settingsHandlers.UpsertPlan)
	soc.GET("/settings/plan", settingsHandlers.GetPlan)
	soc.PUT("/settings/mail", settingsHandlers.UpdateMailSettings)
	soc.POST("/settings/staff", settingsHandlers.AssignStaff)
	soc.GET("/settings/staff", settingsHandlers.ListStaff)

	soc.GET("/dashboard", dashboardHandlers.Summary)

	soc.GET("/audit", auditHandlers.Recent)
	soc.GET("/audit/:resourceType/:resourceId", auditHandlers.ForResource)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server stopped: %v", err)
		}
	}()
	log.Printf("gakkaihub listening on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	if err := scheduler.Stop(); err != nil {
		log.Printf("WARN: job scheduler stop: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: server shutdown: %v", err)
	}
}
