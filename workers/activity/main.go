package main

import (
	"flag"
	"log"
	"net/http"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"employer-registration/activities"
	"employer-registration/backend"
	"employer-registration/config"
	"employer-registration/logging"
	"employer-registration/shared"
	"employer-registration/storage"
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

	// The data converter must match the one used by the registration worker
	// and the CLI, otherwise payloads cannot be decrypted.
	opts, err := cfg.ClientOptions(logger)
	if err != nil {
		log.Fatalf("Unable to build client options: %v", err)
	}
	c, err := client.Dial(opts)
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	// Every running upload holds one logo in memory.
	w := worker.New(c, shared.ActivityTaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: 50,
	})

	// The activity timeouts bound each call; the HTTP client timeout is a backstop.
	hc := &http.Client{Timeout: cfg.UploadTimeout + cfg.SubmitTimeout}
	a := &activities.Activities{
		Uploader: storage.NewClient(storage.Config{
			Endpoint:   cfg.UploadEndpoint,
			Preset:     cfg.UploadPreset,
			BucketID:   cfg.UploadBucketID,
			HTTPClient: hc,
		}),
		Submitter: backend.NewSubmitter(cfg.APIBaseURL, hc),
	}
	w.RegisterActivity(a)

	logger.Info("Starting activity worker", "taskQueue", shared.ActivityTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Unable to start worker: %v", err)
	}
}
