package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/adhithyakrishna0/nova-script-analyst/internal/platform"
	"github.com/adhithyakrishna0/nova-script-analyst/tasks"
	"github.com/adhithyakrishna0/nova-script-analyst/worker"
)

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	processor := worker.NewProcessor(db, rdb)
	processor.Register(tasks.QueueNotifyFanout, processor.HandleNotifyFanout)

	log.Println("Worker started, waiting for queue tasks...")
	if err := processor.Listen(ctx, tasks.QueueNotifyFanout); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Worker stopped: %v", err)
	}
}
