package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trustedvehicles/dealerdesk/internal/common/config"
	"github.com/trustedvehicles/dealerdesk/internal/common/db"
	"github.com/trustedvehicles/dealerdesk/internal/common/logger"
	"github.com/trustedvehicles/dealerdesk/internal/common/middleware"
	"github.com/trustedvehicles/dealerdesk/internal/common/server"
	"github.com/trustedvehicles/dealerdesk/internal/common/tracing"
	"github.com/trustedvehicles/dealerdesk/internal/dealer"
	"github.com/trustedvehicles/dealerdesk/internal/employee"
	"github.com/trustedvehicles/dealerdesk/internal/inspection"
	"github.com/trustedvehicles/dealerdesk/internal/lead"
	"github.com/trustedvehicles/dealerdesk/internal/marketplace"
	"github.com/trustedvehicles/dealerdesk/internal/notify"
	"github.com/trustedvehicles/dealerdesk/internal/report"
	"github.com/trustedvehicles/dealerdesk/internal/sequence"
)

var (
	configPath = flag.String("config", "configs/admin-service.json", "配置文件路径")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	// 配置了 consul.config_key 时，以 Consul KV 里的整份配置为准
	if key := cfg.Consul.ConfigKey; key != "" {
		cfg, err = config.LoadConfigFromConsulKV(cfg.Consul.Host, cfg.Consul.Port, key)
		if err != nil {
			panic(fmt.Sprintf("failed to load config from consul kv: %v", err))
		}
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	// 初始化数据库（mysql / sqlite，按配置）
	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	if err := db.SeedAdmin(gormDB); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	// 通知中心（WebSocket 广播）
	hub := notify.NewHub(log)
	if err := hub.Start(); err != nil {
		log.Fatalf("failed to start notification hub: %v", err)
	}
	defer func() { _ = hub.Stop() }()

	// 顺序编号分配器（TVE-/INS- 前缀）
	seq := sequence.NewAllocator(gormDB)

	// 官网公开入口共用一个限流器
	intake := middleware.NewSlidingWindow(time.Minute, 120)

	// 领域服务
	employeeSvc := employee.NewService(employee.NewRepo(gormDB), seq, hub)
	dealerRepo := dealer.NewRepo(gormDB)
	dealerSvc := dealer.NewService(dealerRepo, hub)
	inspectionSvc := inspection.NewService(inspection.NewRepo(gormDB), dealerRepo, seq, hub)

	contactSvc := lead.NewService[lead.ContactSubmission, *lead.ContactSubmission](
		lead.NewRepo[lead.ContactSubmission](gormDB), hub, "contacts")
	sellSvc := lead.NewService[lead.SellCarRequest, *lead.SellCarRequest](
		lead.NewRepo[lead.SellCarRequest](gormDB), hub, "sellRequests")
	webInspSvc := lead.NewService[lead.WebsiteInspection, *lead.WebsiteInspection](
		lead.NewRepo[lead.WebsiteInspection](gormDB), hub, "websiteInspections")
	loanSvc := lead.NewService[lead.LoanRequest, *lead.LoanRequest](
		lead.NewRepo[lead.LoanRequest](gormDB), hub, "loanRequests")
	insuranceSvc := lead.NewService[lead.InsuranceRenewal, *lead.InsuranceRenewal](
		lead.NewRepo[lead.InsuranceRenewal](gormDB), hub, "insuranceRenewals")
	pdiSvc := lead.NewService[lead.PDIInspection, *lead.PDIInspection](
		lead.NewRepo[lead.PDIInspection](gormDB), hub, "pdiInspections")

	reports := report.NewWriter(cfg.Reports.Dir, log)
	vehicleRepo := marketplace.NewVehicleRepo(gormDB)
	userRepo := marketplace.NewUserRepo(gormDB)
	vehicleSvc := marketplace.NewVehicleService(vehicleRepo, reports, hub, log)
	bannerSvc := marketplace.NewBannerService(marketplace.NewBannerRepo(gormDB))
	userSvc := marketplace.NewUserService(userRepo)
	inquirySvc := marketplace.NewInquiryService(marketplace.NewInquiryRepo(gormDB), vehicleRepo, userRepo, hub)
	mpContactSvc := lead.NewService[marketplace.Contact, *marketplace.Contact](
		lead.NewRepo[marketplace.Contact](gormDB), hub, "marketplaceContacts")

	// 启动统一的 HTTP 服务模板
	if err := server.RunHTTPServer(cfg, log, func(r *gin.Engine) error {
		employee.NewHandler(employeeSvc, cfg.Auth).RegisterRoutes(r)
		dealer.NewHandler(dealerSvc).RegisterRoutes(r)
		inspection.NewHandler(inspectionSvc, intake).RegisterRoutes(r)

		lead.NewHandler(contactSvc, "contacts", "contact", intake).RegisterRoutes(r)
		lead.NewHandler(sellSvc, "sell-requests", "sell-requests", intake).RegisterRoutes(r)
		lead.NewHandler(webInspSvc, "website-inspections", "inspection-requests", intake).RegisterRoutes(r)
		lead.NewHandler(loanSvc, "loan-requests", "loan-requests", intake).RegisterRoutes(r)
		lead.NewHandler(insuranceSvc, "insurance-renewals", "insurance-renewals", intake).RegisterRoutes(r)
		lead.NewHandler(pdiSvc, "pdi-inspections", "pdi-inspections", intake).RegisterRoutes(r)

		marketplace.NewHandler(vehicleSvc, bannerSvc, userSvc, inquirySvc, mpContactSvc, cfg.Auth, intake).RegisterRoutes(r)

		// 通知推送
		r.GET("/ws", gin.WrapH(hub))
		return nil
	}); err != nil {
		log.Fatalf("admin-service exited with error: %v", err)
	}
}
