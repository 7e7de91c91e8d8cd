package main

import (
	"fmt"
	"time"

	"github.com/slicktech/slicklog"
)

func main() {
	logger, err := slicklog.NewBuilder().
		Console(true, true).
		Directory("./logs").
		Name("simple").
		RotateBySize(64, 3).
		BuildAndStart()
	if err != nil {
		panic(err)
	}

	logger.Info("application started, pid={}", 12345)
	logger.Debug("this message is below the configured level")
	logger.Warn("cache miss ratio high: {}", 0.93)
	logger.Error("failed to reach upstream: {}", fmt.Errorf("connection refused"))

	if err := logger.Shutdown(time.Second); err != nil {
		fmt.Println("shutdown:", err)
	}

	stats := logger.Stats()
	fmt.Printf("processed=%d dropped=%d\n", stats.Processed, stats.Dropped)
}
