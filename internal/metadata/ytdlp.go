package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/config"
)

// CommandRunner executes name with args inside dir and returns its standard output
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// YtDlpProvider implements Provider by running yt-dlp in JSON mode
type YtDlpProvider struct {
	path    string
	timeout time.Duration
	run     CommandRunner
}

// NewYtDlpProvider creates a provider running the yt-dlp binary at path.
// A nil runner uses os/exec.
func NewYtDlpProvider(path string, timeout time.Duration, run CommandRunner) *YtDlpProvider {
	if path == "" {
		path = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if run == nil {
		run = execRunner
	}
	return &YtDlpProvider{path: path, timeout: timeout, run: run}
}

// NewYtDlpProviderFromConfig wires the provider from the application config
func NewYtDlpProviderFromConfig(cfg *config.Config) *YtDlpProvider {
	return NewYtDlpProvider(cfg.YtDlp.Path, config.ParseDuration("ytdlp.timeout", cfg.YtDlp.Timeout, 30*time.Second), nil)
}

// Describe implements Provider. yt-dlp runs in a throwaway working directory that is
// removed before returning, whatever the outcome.
func (p *YtDlpProvider) Describe(ctx context.Context, target string) (*VideoInfo, error) {
	logger := config.GetLogger()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	workDir, err := os.MkdirTemp("", "transcript-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn().Err(err).Str("dir", workDir).Msg("Failed to remove yt-dlp working directory")
		}
	}()

	args := []string{
		"-J",
		"--skip-download",
		"--no-warnings",
		"--playlist-items", "1",
		"--",
		target,
	}

	start := time.Now()
	stdout, err := p.run(ctx, workDir, p.path, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("yt-dlp timed out after %s: %w", p.timeout, err)
		}
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	logger.Debug().
		Str("target", target).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(stdout)).
		Msg("yt-dlp metadata retrieved")

	return decodeVideoInfo(stdout)
}

func decodeVideoInfo(data []byte) (*VideoInfo, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("yt-dlp returned no output")
	}

	var info VideoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid yt-dlp JSON: %w", err)
	}
	return &info, nil
}

// execRunner runs the command with os/exec, folding the tail of stderr into the error
func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 500 {
			msg = msg[len(msg)-500:]
		}
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
