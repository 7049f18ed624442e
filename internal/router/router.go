package router

import (
	"fiadopos/internal/config"
	"fiadopos/internal/handler"
	"fiadopos/internal/infra"
	"fiadopos/internal/middleware"
	"fiadopos/internal/model"
	"fiadopos/internal/repository"
	"fiadopos/internal/service"
	"fiadopos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Limiters are created by the caller so their purge loops share its lifetime.
type Limiters struct {
	Global *middleware.RateLimiter
	Login  *middleware.RateLimiter
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil: async endpoints then answer 503 and PDFs are rendered on demand only.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker, lim Limiters) *gin.Engine {
	if cfg.EsProduccion() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	if lim.Global != nil {
		r.Use(lim.Global.Middleware())
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	abonoRepo := repository.NewAbonoRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)

	// Worker dispatcher: injected into services that enqueue async jobs
	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	deudaSvc := service.NewDeudaService(clienteRepo, ventaRepo)
	abonoSvc := service.NewAbonoService(abonoRepo, ventaRepo, clienteRepo, deudaSvc, dispatcher)
	ventaSvc := service.NewVentaService(ventaRepo, abonoRepo, clienteRepo, productoRepo, abonoSvc, deudaSvc, dispatcher)
	clienteSvc := service.NewClienteService(clienteRepo, ventaRepo, deudaSvc)
	productoSvc := service.NewProductoService(productoRepo, historialRepo, movimientoRepo, infra.NewPrecioCache(rdb))

	// Synchronous PDF rendering for downloads shares the worker's code path.
	comprobantes := worker.NewComprobanteWorker(ventaRepo, abonoRepo, clienteRepo, dispatcher, cfg.PDFStoragePath, cfg.NombreNegocio)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	abonosH := handler.NewAbonosHandler(abonoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc, ventaSvc)
	deudasH := handler.NewDeudasHandler(deudaSvc, dispatcher)
	productosH := handler.NewProductosHandler(productoSvc)
	comprobantesH := handler.NewComprobantesHandler(comprobantes, dispatcher)
	preciosH := handler.NewConsultaPreciosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))
	r.GET("/v1/precio/:codigo", preciosH.PrecioPorCodigo)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		if lim.Login != nil {
			auth.POST("/login", lim.Login.Middleware(), authH.Login)
		} else {
			auth.POST("/login", authH.Login)
		}
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	todos := middleware.RequireRole(model.RolSuperAdmin, model.RolVendedor)
	admin := middleware.RequireRole(model.RolSuperAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		ventas := v1.Group("/ventas")
		{
			ventas.POST("", todos, ventasH.CrearVenta)
			ventas.GET("", todos, ventasH.ListarVentas)
			ventas.GET("/pendientes", todos, ventasH.ListarPendientes)
			ventas.GET("/:id", todos, ventasH.ObtenerVenta)
			ventas.DELETE("/:id", admin, ventasH.EliminarVenta)
			ventas.GET("/:id/ticket", todos, comprobantesH.Ticket)
			ventas.POST("/:id/abonos", todos, abonosH.CrearAbono)
			ventas.GET("/:id/abonos", todos, abonosH.ListarAbonos)
			ventas.GET("/:id/abonos/:abono_id/recibo", todos, comprobantesH.Recibo)
		}

		v1.DELETE("/abonos/:id", admin, abonosH.EliminarAbono)

		clientes := v1.Group("/clientes", todos)
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Desactivar)
			clientes.GET("/:id/ventas", clientesH.Ventas)
			clientes.GET("/:id/estado-cuenta", clientesH.EstadoCuenta)
			clientes.GET("/:id/estado-cuenta/pdf", comprobantesH.EstadoCuenta)
			clientes.POST("/:id/estado-cuenta/enviar", comprobantesH.EnviarEstadoCuenta)
			clientes.POST("/:id/abonos", abonosH.AbonarCliente)
			clientes.POST("/:id/liquidar", abonosH.LiquidarCliente)
			clientes.GET("/:id/deuda", deudasH.DeudaReal)
			clientes.POST("/:id/sincronizar-deuda", deudasH.SincronizarCliente)
		}

		v1.POST("/deudas/sincronizar", admin, deudasH.SincronizarTodos)

		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/bajo-stock", todos, productosH.BajoStock)
		v1.GET("/productos/codigo/:codigo", todos, productosH.ObtenerPorCodigo)
		v1.GET("/productos/:id/historial-precios", todos, productosH.HistorialPrecios)
		v1.GET("/productos/:id/movimientos", todos, productosH.Movimientos)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI: only enabled outside production
	if !cfg.EsProduccion() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
