package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tourbook/internal/handler/api"
	"tourbook/internal/handler/middleware"
	"tourbook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	tourHandler *api.TourHandler,
	bookingHandler *api.BookingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, tourHandler, bookingHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	tourHandler *api.TourHandler,
	bookingHandler *api.BookingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		tours := apiGroup.Group("/tours")
		{
			tours.Use(authMiddleware.OptionalAuth())
			addRoutes(tours, []route{
				{Method: http.MethodGet, Path: "", Handler: tourHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: tourHandler.GetByID},
				{Method: http.MethodGet, Path: "/:id/add-ons", Handler: tourHandler.ListAddOns},
			})

			guideRequired := tours.Group("")
			guideRequired.Use(authMiddleware.RequireAuth())
			addRoutes(guideRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: tourHandler.Create},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: tourHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/add-ons", Handler: tourHandler.CreateAddOn},
				{Method: http.MethodPatch, Path: "/:id/add-ons/:addOnId", Handler: tourHandler.UpdateAddOn},
				{Method: http.MethodGet, Path: "/:id/bookings", Handler: tourHandler.ListBookings},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			// Guests book and manage through magic-link tokens, so auth is
			// optional on the booking surface except the personal list.
			bookings.Use(authMiddleware.OptionalAuth(), authMiddleware.ManageToken())
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.Create},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetByID},
				{Method: http.MethodPatch, Path: "/:id", Handler: bookingHandler.Update},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.Cancel},
			})

			authRequired := bookings.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListMine},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
