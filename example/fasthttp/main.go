package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/slicktech/slicklog"
	"github.com/slicktech/slicklog/compat"
)

func main() {
	logger, err := slicklog.NewBuilder().
		Directory("/var/log/fasthttp").
		QueueCapacity(2048).
		BuildAndStart()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(slicklog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (int64, bool) {
	if strings.Contains(msg, "connection cannot be served") {
		return slicklog.LevelWarn, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return slicklog.LevelError, true
	}

	return compat.DetectLogLevel(msg)
}
