package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Molemo21/ConnectSA-k9-sub014/api"
	"github.com/Molemo21/ConnectSA-k9-sub014/config"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/inbox"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/status"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/sync"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, syncSvc sync.SyncUseCase, inboxSvc inbox.InboxUseCase, classifier *status.Classifier) error {
	router := newRouter(cfg, syncSvc, inboxSvc, classifier)

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

func newRouter(cfg *config.Config, syncSvc sync.SyncUseCase, inboxSvc inbox.InboxUseCase, classifier *status.Classifier) *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	api.NewStatusHandler(syncSvc, classifier).Register(v1.Group("/status"))
	api.NewPaymentHandler(syncSvc).Register(v1.Group("/bookings"))
	api.NewNotificationHandler(inboxSvc).Register(v1.Group("/notifications"))
	api.NewIncidentHandler(syncSvc).Register(v1.Group("/incidents"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))
	}

	return router
}
