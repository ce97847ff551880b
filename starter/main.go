package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"employer-registration/backend"
	"employer-registration/config"
	"employer-registration/logging"
	"employer-registration/shared"
	"employer-registration/workflows"
)

var menu = []string{
	"Edit a field",
	"Pick company logo",
	"Show form",
	"Submit registration",
	"Browse companies",
	"Clear form",
	"Exit",
}

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

	ctx := context.Background()
	sessionID := uuid.NewString()
	workflowID := fmt.Sprintf("employer-register-%s", sessionID)

	fmt.Println()
	fmt.Println("🚀 Starting employer registration")

	we, err := c.ExecuteWorkflow(ctx,
		client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: shared.RegistrationWorkflowTaskQueue,
		},
		workflows.RegistrationWorkflow,
		shared.RegistrationSession{SessionID: sessionID, Settings: cfg.RegistrationSettings()},
	)
	if err != nil {
		log.Fatalf("Unable to start workflow: %v", err)
	}
	fmt.Printf("   WorkflowID: %s\n", we.GetID())
	fmt.Printf("   RunID:      %s\n", we.GetRunID())

	hc := &http.Client{Timeout: cfg.SubmitTimeout}
	s := &session{
		client:       c,
		lister:       backend.NewListingClient(cfg.APIBaseURL, hc),
		prompt:       newSurveyDriver(os.Stdout),
		out:          os.Stdout,
		workflowID:   workflowID,
		maxLogoBytes: cfg.MaxLogoBytes,
		pollInterval: 500 * time.Millisecond,
		pollTimeout:  cfg.UploadTimeout + cfg.SubmitTimeout + 10*time.Second,
	}

	registered, err := run(ctx, s)
	switch {
	case errors.Is(err, ErrAborted):
		fmt.Println()
		fmt.Println("👋 Aborted. The session expires on its own.")
		return
	case err != nil:
		log.Fatalf("Registration failed: %v", err)
	}

	var result shared.RegistrationResult
	if err := we.Get(ctx, &result); err != nil {
		log.Fatalf("Workflow failed: %v", err)
	}
	if registered {
		fmt.Printf("🏁 %s. Continue at %s\n", result.Message, result.Redirect)
		return
	}
	fmt.Printf("🏁 Session %s\n", result.Outcome)
}

// run shows the menu until the user registers or exits.
func run(ctx context.Context, s *session) (bool, error) {
	for {
		fmt.Fprintln(s.out)
		idx, err := s.prompt.Select(ctx, SelectConfig{Message: "Employer registration", Options: menu})
		if err != nil {
			return false, err
		}

		switch menu[idx] {
		case "Edit a field":
			err = s.editField(ctx)
		case "Pick company logo":
			err = s.pickLogo(ctx)
		case "Show form":
			err = s.show(ctx)
		case "Submit registration":
			var ok bool
			ok, err = s.submit(ctx)
			if err == nil && ok {
				return true, nil
			}
		case "Browse companies":
			err = s.browse(ctx)
		case "Clear form":
			err = s.reset(ctx)
		case "Exit":
			leave, cerr := s.prompt.Confirm(ctx, "Leave without registering?", false)
			if cerr != nil {
				return false, cerr
			}
			if leave {
				return false, s.abandon(ctx)
			}
		}
		if err != nil {
			return false, err
		}
	}
}
