package main

import (
	"flag"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"employer-registration/activities"
	"employer-registration/config"
	"employer-registration/logging"
	"employer-registration/shared"
	"employer-registration/workflows"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Unable to create logger: %v", err)
	}

	opts, err := cfg.ClientOptions(logger)
	if err != nil {
		log.Fatalf("Unable to build client options: %v", err)
	}
	c, err := client.Dial(opts)
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	// Workflow tasks are lightweight; the preview local activity runs here too,
	// so it is bounded by the local activity slots.
	w := worker.New(c, shared.RegistrationWorkflowTaskQueue, worker.Options{
		MaxConcurrentLocalActivityExecutionSize: 100,
	})

	w.RegisterWorkflow(workflows.RegistrationWorkflow)
	w.RegisterActivity(activities.RenderPreview)

	logger.Info("Starting registration workflow worker", "taskQueue", shared.RegistrationWorkflowTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Unable to start worker: %v", err)
	}
}
