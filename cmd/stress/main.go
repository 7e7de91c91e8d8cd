package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/slicktech/slicklog"
)

const (
	numWorkers   = 64
	logsPerBurst = 500
	totalBursts  = 20
)

var levels = []int64{
	slicklog.LevelDebug,
	slicklog.LevelInfo,
	slicklog.LevelWarn,
	slicklog.LevelError,
}

func main() {
	logger, err := slicklog.NewBuilder().
		LevelString("debug").
		Directory("./logs").
		Name("stress").
		QueueCapacity(4096).
		RotateBySize(1024, 5).
		BuildAndStart()
	if err != nil {
		panic(err)
	}

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for burst := 0; burst < totalBursts; burst++ {
				for i := 0; i < logsPerBurst; i++ {
					level := levels[rand.Intn(len(levels))]
					logger.Log(level, "worker={} burst={} seq={}", worker, burst, i)
				}
				time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
			}
		}(w)
	}
	wg.Wait()

	if err := logger.Shutdown(5 * time.Second); err != nil {
		fmt.Println("shutdown:", err)
	}

	elapsed := time.Since(start)
	stats := logger.Stats()
	total := numWorkers * totalBursts * logsPerBurst
	fmt.Printf("emitted=%d processed=%d dropped=%d in %v (%.0f records/s)\n",
		total, stats.Processed, stats.Dropped, elapsed,
		float64(stats.Processed)/elapsed.Seconds())
}
