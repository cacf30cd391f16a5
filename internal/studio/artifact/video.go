package artifact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/common/gemini"
	"costume-studio/internal/common/metrics"
	"costume-studio/internal/models"
)

// Sleeper waits between polls. It returns early with ctx.Err() when the
// context ends.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartVideo submits a video job seeded with one image. The returned job is
// PENDING unless the backend finished synchronously.
func (c *Client) StartVideo(ctx context.Context, req VideoRequest) (*models.Job, error) {
	if err := req.Seed.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Directive) == "" {
		return nil, fmt.Errorf("%w: video directive is empty", apperrors.ErrInvalidInput)
	}

	config := &genai.GenerateVideosConfig{
		Resolution:  req.Resolution,
		AspectRatio: req.AspectRatio,
	}
	if req.Count > 0 {
		config.NumberOfVideos = int32(req.Count)
	}

	op, err := c.gemini.Videos.GenerateVideos(ctx,
		c.gemini.Model(gemini.StageVideo),
		req.Directive,
		&genai.Image{ImageBytes: req.Seed.Data, MIMEType: req.Seed.MediaType},
		config,
	)
	if err != nil {
		return nil, gemini.Transport("start video job", err)
	}
	if op == nil {
		return nil, fmt.Errorf("%w: backend returned no job handle", apperrors.ErrVideoGenerationFailed)
	}

	job := jobFrom(op, 0)
	c.log.Info("Video job started", map[string]interface{}{
		"job":  job.Name,
		"done": job.Done,
	})
	return job, nil
}

// PollVideo issues one status check and returns the advanced job. A done
// job is returned unchanged.
func (c *Client) PollVideo(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.Done {
		return job, nil
	}
	op, ok := job.Handle.(*genai.GenerateVideosOperation)
	if !ok || op == nil {
		op = &genai.GenerateVideosOperation{Name: job.Name}
	}

	next, err := c.gemini.Operations.GetVideosOperation(ctx, op, nil)
	metrics.VideoPolls.Inc()
	if err != nil {
		return nil, gemini.Transport("poll video job", err)
	}
	if next == nil {
		return nil, fmt.Errorf("%w: poll returned no job", apperrors.ErrVideoGenerationFailed)
	}
	if next.Name == "" {
		next.Name = job.Name
	}

	updated := jobFrom(next, job.Attempts+1)
	c.log.Debug("Video job polled", map[string]interface{}{
		"job":     updated.Name,
		"attempt": updated.Attempts,
		"done":    updated.Done,
	})
	return updated, nil
}

// AwaitVideo drives the job to DONE: while not done it sleeps one interval
// and polls. It stops early on ctx cancellation or when the attempt bound is
// reached; neither cancels the remote job.
func (c *Client) AwaitVideo(ctx context.Context, job *models.Job) (string, error) {
	current := job
	for !current.Done {
		if c.maxAttempts > 0 && current.Attempts >= c.maxAttempts {
			return "", fmt.Errorf("%w: job %s still pending after %d polls", apperrors.ErrPollAttemptsExhausted, current.Name, current.Attempts)
		}
		if err := c.sleeper.Sleep(ctx, c.interval); err != nil {
			return "", fmt.Errorf("await video job %s: %w", current.Name, err)
		}
		next, err := c.PollVideo(ctx, current)
		if err != nil {
			return "", err
		}
		current = next
	}
	return c.finish(current)
}

func (c *Client) finish(job *models.Job) (string, error) {
	if !job.Succeeded() {
		reason := job.Failure
		if reason == "" {
			reason = "no result locator"
		}
		c.log.Warn("Video job finished without a result", map[string]interface{}{
			"job":    job.Name,
			"reason": reason,
		})
		return "", fmt.Errorf("%w: job %s: %s", apperrors.ErrVideoGenerationFailed, job.Name, reason)
	}

	locator := *job.ResultLocator
	if strings.HasPrefix(locator, "data:") {
		return locator, nil
	}
	return c.gemini.AuthorizeLocator(locator)
}

func jobFrom(op *genai.GenerateVideosOperation, attempts int) *models.Job {
	job := &models.Job{
		Name:     op.Name,
		Done:     op.Done,
		Attempts: attempts,
		Handle:   op,
	}
	if !op.Done {
		return job
	}
	if len(op.Error) > 0 {
		job.Failure = fmt.Sprint(op.Error["message"])
		return job
	}
	if op.Response == nil {
		return job
	}
	for _, gv := range op.Response.GeneratedVideos {
		if gv == nil || gv.Video == nil {
			continue
		}
		v := gv.Video
		var locator string
		switch {
		case v.URI != "":
			locator = v.URI
		case len(v.VideoBytes) > 0:
			mediaType := v.MIMEType
			if mediaType == "" {
				mediaType = "video/mp4"
			}
			locator = (&models.GeneratedArtifact{MediaType: mediaType, Data: v.VideoBytes}).Locator()
		default:
			continue
		}
		job.ResultLocator = &locator
		return job
	}
	if len(op.Response.RAIMediaFilteredReasons) > 0 {
		job.Failure = "filtered: " + strings.Join(op.Response.RAIMediaFilteredReasons, "; ")
	}
	return job
}
