package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

type Config struct {
	Port      int
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables the limiter
}

func New(ctx context.Context, handler http.Handler, config Config) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
		ReadTimeout:       config.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * config.Timeout,
	}
}
