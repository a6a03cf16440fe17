package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"billmint/internal/caching"
	"billmint/internal/config"
	"billmint/internal/handlers"
	"billmint/internal/jobs"
	"billmint/internal/middleware"
	"billmint/internal/repositories"
	"billmint/internal/services"
	"billmint/pkg/database"
)

const version = "1.0.0"

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Billing configuration
	cfg := config.DefaultBillingConfig()
	if path := os.Getenv("BILLING_CONFIG"); path != "" {
		cfg, err = config.LoadBillingConfig(path)
		if err != nil {
			log.Fatalf("Failed to load billing config from %s: %v", path, err)
		}
	}

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret; sessions will not survive a restart")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	docSvc, err := services.NewMinioDocumentService(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize document service: %v", err)
	}
	if err := docSvc.EnsureBucketExists(context.Background(), cfg.Documents.Bucket); err != nil {
		log.Printf("WARN: failed to ensure document bucket %q: %v", cfg.Documents.Bucket, err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepository(pool)
	tenantRepo := repositories.NewTenantRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	orgRepo := repositories.NewOrganizationRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	purchaseRepo := repositories.NewPurchaseRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	employeeRepo := repositories.NewEmployeeRepository(pool)
	projectRepo := repositories.NewProjectRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Background queue
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()
	enqueuer := jobs.NewEnqueuer(asynqClient)

	// Create services
	authSvc := services.NewAuthService(cacheSvc, jwtSecret, 3600, 7*24*3600)
	productSvc := services.NewProductService(productRepo, cacheSvc)
	purchaseSvc := services.NewPurchaseService(purchaseRepo, productRepo, cacheSvc)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, orgRepo, customerRepo, productRepo, cacheSvc, enqueuer, cfg)
	dashboardSvc := services.NewDashboardService(invoiceRepo, productRepo, cacheSvc)
	pdfSvc := services.NewPDFService()

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo, tenantRepo)
	productHandlers := handlers.NewProductHandlers(productSvc)
	customerHandlers := handlers.NewCustomerHandlers(customerRepo)
	orgHandlers := handlers.NewOrganizationHandlers(orgRepo)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, pdfSvc, docSvc, cfg)
	purchaseHandlers := handlers.NewPurchaseHandlers(purchaseSvc)
	expenseHandlers := handlers.NewExpenseHandlers(expenseRepo)
	employeeHandlers := handlers.NewEmployeeHandlers(employeeRepo)
	projectHandlers := handlers.NewProjectHandlers(projectRepo)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background workers
	pdfProcessor := jobs.NewInvoicePDFProcessor(invoiceSvc, pdfSvc, docSvc, cfg)
	asynqMux := asynq.NewServeMux()
	jobs.RegisterHandlers(asynqMux, pdfProcessor)
	asynqServer := asynq.NewServer(redisOpt, asynq.Config{Concurrency: cfg.Jobs.Concurrency})
	go func() {
		if err := asynqServer.Run(asynqMux); err != nil {
			log.Fatalf("Failed to run task server: %v", err)
		}
	}()

	scheduler := jobs.NewJobScheduler(invoiceSvc, tenantRepo, cfg)
	scheduler.Start()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.Live)
	e.GET("/health/ready", healthHandlers.Health)

	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	// Protected routes
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))

	protected.GET("/me", authHandlers.Me)
	protected.POST("/auth/logout", authHandlers.Logout)

	// Organization routes
	protected.GET("/organizations", orgHandlers.GetOrganizations)
	protected.POST("/organizations", orgHandlers.CreateOrganization)
	protected.GET("/organizations/:id", orgHandlers.GetOrganizationByID)
	protected.PUT("/organizations/:id", orgHandlers.UpdateOrganization)
	protected.DELETE("/organizations/:id", orgHandlers.DeleteOrganization)

	// Customer routes
	protected.GET("/customers", customerHandlers.GetCustomers)
	protected.POST("/customers", customerHandlers.CreateCustomer)
	protected.GET("/customers/:id", customerHandlers.GetCustomerByID)
	protected.PUT("/customers/:id", customerHandlers.UpdateCustomer)
	protected.DELETE("/customers/:id", customerHandlers.DeleteCustomer)

	// Product routes
	protected.GET("/products", productHandlers.GetProducts)
	protected.POST("/products", productHandlers.CreateProduct)
	protected.GET("/products/catalog", productHandlers.GetCatalog)
	protected.GET("/products/sku/:sku", productHandlers.GetProductBySKU)
	protected.GET("/products/:id", productHandlers.GetProductByID)
	protected.PUT("/products/:id", productHandlers.UpdateProduct)
	protected.DELETE("/products/:id", productHandlers.DeleteProduct)
	protected.POST("/products/:id/adjust-stock", productHandlers.AdjustStock)

	// Purchase routes
	protected.GET("/purchases", purchaseHandlers.GetPurchases)
	protected.POST("/purchases", purchaseHandlers.CreatePurchase)
	protected.GET("/purchases/:id", purchaseHandlers.GetPurchaseByID)
	protected.GET("/purchases/product/:product_id", purchaseHandlers.GetPurchasesByProduct)

	// Invoice routes
	protected.GET("/invoices", invoiceHandlers.GetInvoices)
	protected.POST("/invoices", invoiceHandlers.CreateInvoice)
	protected.POST("/invoices/preview", invoiceHandlers.PreviewInvoice)
	protected.GET("/invoices/unpaid", invoiceHandlers.GetUnpaidInvoices)
	protected.GET("/invoices/gst-report", invoiceHandlers.GetGSTReport)
	protected.GET("/invoices/:id", invoiceHandlers.GetInvoiceByID)
	protected.PUT("/invoices/:id/status", invoiceHandlers.UpdateInvoiceStatus)
	protected.GET("/invoices/:id/pdf", invoiceHandlers.DownloadInvoicePDF)
	protected.GET("/invoices/:id/pdf-url", invoiceHandlers.GetInvoicePDFURL)
	protected.DELETE("/invoices/:id", invoiceHandlers.DeleteInvoice)

	// Expense routes
	protected.GET("/expenses", expenseHandlers.GetExpenses)
	protected.POST("/expenses", expenseHandlers.CreateExpense)
	protected.GET("/expenses/:id", expenseHandlers.GetExpenseByID)
	protected.PUT("/expenses/:id", expenseHandlers.UpdateExpense)
	protected.DELETE("/expenses/:id", expenseHandlers.DeleteExpense)
	protected.GET("/expenses/project/:project_id", expenseHandlers.GetExpensesByProject)

	// Employee routes
	protected.GET("/employees", employeeHandlers.GetEmployees)
	protected.POST("/employees", employeeHandlers.CreateEmployee)
	protected.GET("/employees/:id", employeeHandlers.GetEmployeeByID)
	protected.PUT("/employees/:id", employeeHandlers.UpdateEmployee)
	protected.DELETE("/employees/:id", employeeHandlers.DeleteEmployee)

	// Project routes
	protected.GET("/projects", projectHandlers.GetProjects)
	protected.POST("/projects", projectHandlers.CreateProject)
	protected.GET("/projects/:id", projectHandlers.GetProjectByID)
	protected.PUT("/projects/:id", projectHandlers.UpdateProject)
	protected.DELETE("/projects/:id", projectHandlers.DeleteProject)

	// Dashboard route
	protected.GET("/dashboard", dashboardHandlers.GetMetrics)

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		log.Printf("Billmint server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	if err := scheduler.Stop(); err != nil {
		log.Printf("WARN: scheduler shutdown: %v", err)
	}
	asynqServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
}
