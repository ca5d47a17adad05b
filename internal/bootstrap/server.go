package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/evgall/ticketline/api"
	"github.com/evgall/ticketline/config"
	"github.com/evgall/ticketline/internal/service/booking"
	"github.com/evgall/ticketline/internal/service/events"
	"github.com/evgall/ticketline/internal/service/users"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, eventSvc events.EventUseCase, userSvc users.UserUseCase) error {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.HTTP.RequestTimeoutSeconds > 0 {
		router.Use(requestTimeout(time.Duration(cfg.HTTP.RequestTimeoutSeconds) * time.Second))
	}

	v1 := router.Group("/v1")
	api.NewUserHandler(userSvc).Register(v1)
	api.NewEventHandler(bookingSvc, eventSvc).Register(v1, api.BasicAuth(userSvc))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// requestTimeout bounds every request so a blocked row lock cannot queue
// callers indefinitely.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
