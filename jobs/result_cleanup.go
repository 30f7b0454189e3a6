package jobs

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
)

// ResultCleanupJob deletes expired result rows. Reads already filter on
// expires_at, so this job only reclaims storage; expiry semantics never
// depend on it having run.
type ResultCleanupJob struct {
	DB *sql.DB
}

func NewResultCleanupJob(db *sql.DB) *ResultCleanupJob {
	return &ResultCleanupJob{DB: db}
}

func (j *ResultCleanupJob) Run() {
	logrus.Info("Starting result cleanup job")
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	result, err := j.DB.ExecContext(ctx, `DELETE FROM intake_results WHERE expires_at < NOW()`)
	if err != nil {
		logrus.WithError(err).Warn("Result cleanup job failed")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	logrus.WithField("deleted", rowsAffected).Info("Result cleanup job completed")
}
