package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/api"
	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/identity"
	"github.com/Domenick1991/travelbooking/internal/service/search"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	searchSvc search.SearchUseCase,
	bookingSvc booking.BookingUseCase,
	identitySvc identity.IdentityUseCase,
) error {
	router := newRouter(cfg, searchSvc, bookingSvc, identitySvc)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(
	cfg *config.Config,
	searchSvc search.SearchUseCase,
	bookingSvc booking.BookingUseCase,
	identitySvc identity.IdentityUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	api.NewFlightHandler(searchSvc, bookingSvc).Register(v1.Group("/flights"))
	api.NewHotelHandler(searchSvc, bookingSvc).Register(v1.Group("/hotels"))
	api.NewCarHandler(searchSvc, bookingSvc).Register(v1.Group("/cars"))
	api.NewBookingHandler(bookingSvc).Register(v1.Group("/bookings"))
	api.NewUserHandler(identitySvc, bookingSvc).Register(v1.Group("/users"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/travelbooking.swagger.json"),
		)))
	}

	return router
}
