package publisher

import (
	"context"
	"log"
	"net/http"
	"time"
)

// TriggerDeploy fires the static-site rebuild webhook after a successful
// publish. Best effort: an unset URL logs a skip, and failures are logged
// without failing the submission.
func TriggerDeploy(ctx context.Context, client *http.Client, hookURL string, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	if hookURL == "" {
		logger.Println("deploy hook not configured - skipping rebuild")
		return
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hookURL, nil)
	if err != nil {
		logger.Printf("deploy hook request error: %v", err)
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		logger.Printf("deploy hook error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Printf("deploy hook returned status %d", resp.StatusCode)
		return
	}
	logger.Println("triggered site rebuild")
}
