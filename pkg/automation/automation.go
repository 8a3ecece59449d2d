// Package automation invokes the external browser-automation collaborator.
// Each call is one blocking round-trip to the subprocess: a textual command
// goes in, one JSON envelope comes back on stdout. No retries happen at
// this layer; retry policy belongs to callers.
package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"compscraper/pkg/config"
	"compscraper/pkg/errors"
	"compscraper/pkg/logger"
)

// TokenEnvVar is the environment variable through which the gallery session
// token is handed to the automation subprocess.
const TokenEnvVar = "COMPSCRAPER_SESSION_TOKEN"

// Result is the JSON envelope every automation command returns
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
}

// FailureReason returns the collaborator's reported failure text
func (r *Result) FailureReason() string {
	if r.Error != "" {
		return r.Error
	}
	if r.Message != "" {
		return r.Message
	}
	return "automation command failed"
}

// Session models one interactive browsing session with the collaborator
type Session struct {
	binary   string
	timeout  time.Duration
	extraEnv []string
	logger   logger.Logger

	// run is swappable for tests
	run func(ctx context.Context, binary, command string, env []string) ([]byte, error)
}

// NewSession creates a session bound to the configured automation binary
func NewSession(cfg *config.AutomationConfig, log logger.Logger) *Session {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Session{
		binary:  cfg.Binary,
		timeout: cfg.Timeout,
		logger:  log,
		run:     runCommand,
	}
}

// SetSessionToken passes a gallery session token to the subprocess
// environment so the collaborator can browse authenticated pages.
func (s *Session) SetSessionToken(token string) {
	if token == "" {
		return
	}
	s.extraEnv = append(s.extraEnv, fmt.Sprintf("%s=%s", TokenEnvVar, token))
}

func runCommand(ctx context.Context, binary, command string, env []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, command)
	cmd.Env = append(os.Environ(), env...)
	return cmd.Output()
}

// Execute sends a textual command to the collaborator and parses its
// stdout as the success/failure envelope.
func (s *Session) Execute(ctx context.Context, command string) (*Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.DebugWithFields("automation command", map[string]interface{}{
		"command": command,
	})

	output, err := s.run(ctx, s.binary, command, s.extraEnv)
	duration := time.Since(start)
	if err != nil {
		s.logger.ErrorWithFields("automation process failed", map[string]interface{}{
			"command":  command,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Wrap(errors.ErrorTypeAutomation, "automation process failed", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeAutomation, "automation output is not a valid envelope", err)
	}

	if !result.Success {
		s.logger.WarnWithFields("automation command rejected", map[string]interface{}{
			"command": command,
			"reason":  result.FailureReason(),
		})
		return &result, errors.Automation(result.FailureReason())
	}

	s.logger.DebugWithFields("automation command completed", map[string]interface{}{
		"command":  command,
		"duration": duration,
	})

	return &result, nil
}

// Navigate points the browsing session at a URL
func (s *Session) Navigate(ctx context.Context, url string) error {
	_, err := s.Execute(ctx, fmt.Sprintf("navigate %q", url))
	return err
}

// Act performs a natural-language UI action, e.g. clicking a control
func (s *Session) Act(ctx context.Context, instruction string) error {
	_, err := s.Execute(ctx, fmt.Sprintf("act %q", instruction))
	return err
}

// Extract requests a structured extraction; schema describes the expected
// shape and is serialized as a JSON schema object after the instruction.
func (s *Session) Extract(ctx context.Context, instruction string, schema map[string]interface{}) (string, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeAutomation, "failed to encode extraction schema", err)
	}

	result, err := s.Execute(ctx, fmt.Sprintf("extract %q %s", instruction, schemaJSON))
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// Screenshot captures the current page, returning the temporary image path
func (s *Session) Screenshot(ctx context.Context) (string, error) {
	result, err := s.Execute(ctx, "screenshot")
	if err != nil {
		return "", err
	}
	if result.Screenshot == "" {
		return "", errors.Automation("screenshot command returned no image path")
	}
	return result.Screenshot, nil
}

// Close ends the browsing session
func (s *Session) Close(ctx context.Context) error {
	_, err := s.Execute(ctx, "close")
	return err
}
