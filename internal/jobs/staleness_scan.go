package jobs

import (
	"context"
	"time"

	"github.com/docyard/docyard/internal/service"
	"github.com/sirupsen/logrus"
)

var _ CronJob = (*StalenessScanTask)(nil)

// StalenessScanTask runs the archival scan over the whole corpus on a cron
// schedule and logs the candidate report. It only reads; acting on a
// candidate remains an explicit operator step.
type StalenessScanTask struct {
	scanner  *service.Scanner
	schedule string
}

func NewStalenessScanTask(schedule string, scanner *service.Scanner) *StalenessScanTask {
	return &StalenessScanTask{
		scanner:  scanner,
		schedule: schedule,
	}
}

func (s *StalenessScanTask) Schedule() string {
	return s.schedule
}

func (s *StalenessScanTask) Run() {
	report, err := s.scanner.Run(context.Background(), time.Now())
	if err != nil {
		logrus.Errorf("staleness scan aborted after page %d: %v", report.LastPage, err)
		return
	}

	candidates := report.Candidates()
	logrus.Infof("staleness scan finished: %d documents scanned, %d archival candidates", report.Scanned, len(candidates))
	for _, c := range candidates {
		logrus.Infof("archival candidate %s (score %.2f): %s", c.DocumentID, c.Score, c.Reason)
	}
}
