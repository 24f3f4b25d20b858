package veo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"food-shorts-pipeline/config"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client drives Veo video generation over the Generative Language REST API:
// submit a long-running request, poll the operation, download the asset.
type Client struct {
	apiKey       string
	baseURL      string
	model        string
	aspectRatio  string
	durationSec  int
	personPolicy string
	pollInterval time.Duration
	maxWait      time.Duration
	httpClient   *http.Client
}

// NewClient creates a Veo client using GEMINI_API_KEY from the environment
func NewClient(cfg *config.VeoConfig) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		model:        cfg.Model,
		aspectRatio:  cfg.AspectRatio,
		durationSec:  cfg.DurationSeconds,
		personPolicy: cfg.PersonGeneration,
		pollInterval: time.Duration(cfg.PollIntervalSec) * time.Second,
		maxWait:      time.Duration(cfg.MaxWaitSec) * time.Second,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type generateRequest struct {
	Instances  []promptInstance `json:"instances"`
	Parameters videoParameters  `json:"parameters"`
}

type promptInstance struct {
	Prompt string `json:"prompt"`
}

type videoParameters struct {
	AspectRatio      string `json:"aspectRatio"`
	DurationSeconds  int    `json:"durationSeconds"`
	SampleCount      int    `json:"sampleCount"`
	PersonGeneration string `json:"personGeneration"`
	EnhancePrompt    bool   `json:"enhancePrompt"`
}

type operation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

// Generate submits an asynchronous video generation request and returns the
// operation name to poll
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Instances: []promptInstance{{Prompt: prompt}},
		Parameters: videoParameters{
			AspectRatio:      c.aspectRatio,
			DurationSeconds:  c.durationSec,
			SampleCount:      1,
			PersonGeneration: c.personPolicy,
			EnhancePrompt:    true,
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("veo request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("veo HTTP %d: %s", resp.StatusCode, truncate(string(respBytes), 300))
	}

	var op operation
	if err := json.Unmarshal(respBytes, &op); err != nil {
		return "", fmt.Errorf("parse veo response: %w", err)
	}
	if op.Name == "" {
		return "", fmt.Errorf("veo returned no operation name")
	}
	return op.Name, nil
}

// Await polls the operation on a fixed interval until it completes, the
// context is cancelled, or the wait budget runs out. On completion it
// returns the URI of the first generated video.
func (c *Client) Await(ctx context.Context, operationName string) (string, error) {
	deadline := time.Now().Add(c.maxWait)
	for {
		op, err := c.getOperation(ctx, operationName)
		if err != nil {
			return "", err
		}
		if op.Done {
			if op.Error != nil {
				return "", fmt.Errorf("veo operation failed: %s", op.Error.Message)
			}
			if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
				return "", fmt.Errorf("veo operation finished with no videos")
			}
			return op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("video generation did not finish within %s", c.maxWait)
		}

		log.Printf("[veo] Waiting for video generation... (checking every %s)", c.pollInterval)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) getOperation(ctx context.Context, name string) (*operation, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimPrefix(name, "/"))
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("veo poll: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("veo poll HTTP %d: %s", resp.StatusCode, truncate(string(respBytes), 300))
	}

	var op operation
	if err := json.Unmarshal(respBytes, &op); err != nil {
		return nil, fmt.Errorf("parse operation: %w", err)
	}
	return &op, nil
}

// Download fetches a generated video asset and persists it to dest
func (c *Client) Download(ctx context.Context, uri, dest string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download video: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// Anything this small is an error page, not a video
	if len(data) < 100 {
		return fmt.Errorf("downloaded file too small (%d bytes) — likely an error response", len(data))
	}

	return os.WriteFile(dest, data, 0644)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
