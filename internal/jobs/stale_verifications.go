// File: internal/jobs/stale_verifications.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"marketplace_admin_backend/internal/config"
	"marketplace_admin_backend/internal/verification"
)

// StaleVerificationJob periodically counts verification requests left pending
// beyond the configured threshold so review backlogs surface in the logs
// instead of going unnoticed.
type StaleVerificationJob struct {
	verificationService verification.Service
	logger              *zap.Logger
	cfg                 *config.Config
	cronScheduler       *cron.Cron
}

// NewStaleVerificationJob creates a new StaleVerificationJob.
func NewStaleVerificationJob(
	verificationService verification.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *StaleVerificationJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &StaleVerificationJob{
		verificationService: verificationService,
		logger:              logger.Named("StaleVerificationJob"),
		cfg:                 cfg,
		cronScheduler:       scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *StaleVerificationJob) SetupAndStart() error {
	jobSpec := j.cfg.StaleVerificationJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Stale verification job schedule not defined (STALE_VERIFICATION_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule stale verification job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Stale verification job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job. Failures are logged,
// never fatal.
func (j *StaleVerificationJob) runJob() {
	j.logger.Info("Starting stale verification sweep...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -j.cfg.StaleVerificationMaxAgeDays)
	staleCount, err := j.verificationService.CountPendingOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("Stale verification sweep failed", zap.Error(err))
		return
	}

	if staleCount > 0 {
		j.logger.Warn("Verification requests pending past the review threshold",
			zap.Int64("stale_count", staleCount),
			zap.Int("max_age_days", j.cfg.StaleVerificationMaxAgeDays),
		)
	} else {
		j.logger.Info("Stale verification sweep completed, no backlog detected")
	}
}

// Stop gracefully stops the cron scheduler.
func (j *StaleVerificationJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping stale verification job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Stale verification job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Stale verification job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
