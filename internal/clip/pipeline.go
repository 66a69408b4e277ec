package clip

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"clipshelf/internal/config"
	"clipshelf/internal/logging"
	"clipshelf/internal/media/ffprobe"
)

var commandContext = exec.CommandContext

// coarseSeekLead is how many seconds before the requested start the
// re-encode pre-seek lands; the precise secondary seek covers the rest.
const coarseSeekLead = 10.0

// Pipeline produces trimmed media files via the configured ffmpeg binary.
type Pipeline struct {
	ffmpeg        string
	ffprobe       string
	logger        *slog.Logger
	probeDuration func(ctx context.Context, source string) (float64, error)
}

// NewPipeline constructs a pipeline using the configured tool binaries.
func NewPipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	ffmpeg := "ffmpeg"
	ffprobeBin := "ffprobe"
	if cfg != nil {
		if cfg.Tools.FFmpegBinary != "" {
			ffmpeg = cfg.Tools.FFmpegBinary
		}
		if cfg.Tools.FFprobeBinary != "" {
			ffprobeBin = cfg.Tools.FFprobeBinary
		}
	}
	p := &Pipeline{ffmpeg: ffmpeg, ffprobe: ffprobeBin, logger: logger}
	p.probeDuration = func(ctx context.Context, source string) (float64, error) {
		probe, err := ffprobe.Inspect(ctx, p.ffprobe, source)
		if err != nil {
			return 0, err
		}
		return probe.DurationSeconds(), nil
	}
	return p
}

// Request describes one extraction. Nil StartSeconds means 0; nil EndSeconds
// means the full source duration, which requires a probe.
type Request struct {
	Source       string
	StartSeconds *float64
	EndSeconds   *float64
	OutputPath   string
	ReEncode     bool
	Scale        float64
	OnProgress   func(percent int)
}

// Result carries the outcome of an extraction. Failures are data, not
// errors: Success is false and Error holds the failure text.
type Result struct {
	Success    bool    `json:"success"`
	OutputPath string  `json:"outputPath,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	FileSize   int64   `json:"fileSize,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func failure(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Extract runs one ffmpeg subprocess to completion, streaming progress via
// the request callback. The subprocess is fully owned: stderr is drained and
// the exit awaited before Extract returns.
func (p *Pipeline) Extract(ctx context.Context, req Request) Result {
	start := 0.0
	if req.StartSeconds != nil {
		start = *req.StartSeconds
	}

	var end float64
	if req.EndSeconds != nil {
		end = *req.EndSeconds
	} else {
		total, err := p.probeDuration(ctx, req.Source)
		if err != nil {
			return failure("probe source duration: %v", err)
		}
		if total <= 0 {
			return failure("could not determine duration of %s", req.Source)
		}
		end = total
	}

	if start < 0 {
		return failure("start %.3f must not be negative", start)
	}
	if end <= start {
		return failure("end %.3f must be after start %.3f", end, start)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return failure("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return failure("create output directory: %v", err)
	}

	duration := end - start
	args := p.buildArgs(req, start, duration)

	p.logger.Info("extracting clip",
		slog.String("source", req.Source),
		slog.String("output", req.OutputPath),
		slog.String("mode", modeLabel(req)),
		slog.Float64("duration", duration))

	cmd := commandContext(ctx, p.ffmpeg, args...)
	cmd.Stdout = io.Discard
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return failure("stderr pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return failure("start %s: %v", p.ffmpeg, err)
	}

	reporter := newReporter(duration, timestampPattern, req.OnProgress)
	if err := reporter.Consume(stderr); err != nil {
		// Keep draining ownership: the exit status decides the outcome.
		p.logger.Warn("progress stream read failed", slog.String("error", err.Error()))
	}

	if err := cmd.Wait(); err != nil {
		detail := reporter.Tail()
		if detail != "" {
			return failure("%s failed: %v: %s", p.ffmpeg, err, detail)
		}
		return failure("%s failed: %v", p.ffmpeg, err)
	}

	if req.OnProgress != nil {
		req.OnProgress(100)
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil {
		return failure("stat output: %v", err)
	}
	return Result{
		Success:    true,
		OutputPath: req.OutputPath,
		Duration:   duration,
		FileSize:   info.Size(),
	}
}

// copyMode reports whether the lossless segment copy can serve the request.
// Re-encode is mandatory whenever geometry changes or frame accuracy is
// requested.
func copyMode(req Request) bool {
	if req.ReEncode {
		return false
	}
	return req.Scale == 0 || req.Scale == 1
}

func modeLabel(req Request) string {
	if copyMode(req) {
		return "copy"
	}
	return "re-encode"
}

func (p *Pipeline) buildArgs(req Request, start, duration float64) []string {
	if copyMode(req) {
		return []string{
			"-hide_banner", "-y",
			"-ss", formatSeconds(start),
			"-i", req.Source,
			"-t", formatSeconds(duration),
			"-c", "copy",
			"-avoid_negative_ts", "make_zero",
			req.OutputPath,
		}
	}

	coarse := math.Max(0, start-coarseSeekLead)
	precise := start - coarse

	args := []string{
		"-hide_banner", "-y",
		"-ss", formatSeconds(coarse),
		"-i", req.Source,
		"-ss", formatSeconds(precise),
		"-t", formatSeconds(duration),
	}
	if req.Scale != 0 && req.Scale != 1 {
		filter := fmt.Sprintf("scale=iw*%s:ih*%s:flags=lanczos", formatScale(req.Scale), formatScale(req.Scale))
		args = append(args, "-vf", filter)
	}
	args = append(args,
		"-c:v", "libx264",
		"-profile:v", "high",
		"-preset", "fast",
		"-crf", "18",
		"-r", "30",
		"-c:a", "aac",
		"-movflags", "+faststart",
		req.OutputPath,
	)
	return args
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatScale(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
