package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/docyard/docyard/internal/jobs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd())
}

func watchCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "watch",
		Short:   "run the scheduled staleness scan until interrupted",
		Example: "docyard watch",
		Run: func(cmd *cobra.Command, args []string) {
			env := newEnv()
			defer env.close()

			executor := jobs.NewTaskExecutor(nil, []jobs.CronJob{
				jobs.NewStalenessScanTask(env.cfg.ScanSchedule, env.scanner),
			})
			if err := executor.Run(); err != nil {
				logrus.Error(err)
				return
			}
			defer executor.Stop()

			logrus.Infof("staleness scan scheduled: %s", env.cfg.ScanSchedule)

			done := make(chan os.Signal, 1)
			signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
			<-done
		},
	}

	return command
}
