package jobs

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
)

// WithStagedCleanup wraps a JobHandler so that a staged upload file is
// removed once its job will not run again: after a successful attempt, or
// after the attempt that exhausts the retry budget. Jobs whose source is not
// staged (gs:// URIs, caller-owned paths) are left untouched.
func WithStagedCleanup(log zerolog.Logger, next JobHandler) JobHandler {
	return func(ctx context.Context, job *AnalysisJob) error {
		err := next(ctx, job)

		if job.Staged && (err == nil || job.RetryCount >= job.MaxRetries) {
			if rmErr := os.Remove(job.SourceURI); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Warn().
					Err(rmErr).
					Str("job_id", job.JobID).
					Str("source_uri", job.SourceURI).
					Msg("Failed to remove staged upload")
			}
		}

		return err
	}
}
