package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costeo-api/internal/application/auth"
	"github.com/jhoicas/Costeo-api/internal/application/company"
	"github.com/jhoicas/Costeo-api/internal/application/voucher"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC *company.CompanyUseCase
	VoucherUC *voucher.VoucherUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: bootstrap del registro)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Vouchers (protegido). La contabilización exige rol contable.
	vouchers := protected.Group("/vouchers")
	voucherHandler := NewVoucherHandler(deps.VoucherUC)
	vouchers.Post("/", voucherHandler.Create)
	vouchers.Get("/", voucherHandler.List)
	vouchers.Get("/:id", voucherHandler.GetByID)
	vouchers.Post("/:id/bills", voucherHandler.AddBill)
	vouchers.Post("/:id/items", voucherHandler.AddItems)
	vouchers.Post("/:id/allocate", voucherHandler.Allocate)
	vouchers.Post("/:id/post", RequireRole(entity.RoleAdmin, entity.RoleContador), voucherHandler.Post)
}
