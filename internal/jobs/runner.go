package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs one-shot jobs once and cron jobs on their schedules,
// suppressing overlapping runs of the same cron job.
type TaskExecutor struct {
	cron            *cron.Cron
	jobs            []Job
	cronJobs        []CronJob
	runningCronJobs mapset.Set[CronJob]
	mu              sync.Mutex
}

func NewTaskExecutor(jobs []Job, cronJobs []CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:            cron.New(),
		jobs:            jobs,
		cronJobs:        cronJobs,
		runningCronJobs: mapset.NewSet[CronJob](),
	}
}

// Run starts the one-shot jobs in their own goroutines and the cron loop.
func (t *TaskExecutor) Run() error {
	for _, job := range t.cronJobs {
		job := job
		err := t.cron.AddFunc(job.Schedule(), func() {
			t.mu.Lock()
			if t.runningCronJobs.Contains(job) {
				t.mu.Unlock()
				logrus.Warn("previous run still in progress, skipping")
				return
			}
			t.runningCronJobs.Add(job)
			t.mu.Unlock()

			defer func() {
				t.mu.Lock()
				defer t.mu.Unlock()
				t.runningCronJobs.Remove(job)
			}()

			job.Run()
		})
		if err != nil {
			return err
		}
	}

	for _, job := range t.jobs {
		go job.Run()
	}

	t.cron.Start()

	return nil
}

func (t *TaskExecutor) Stop() {
	t.cron.Stop()
}
