package main

import (
	"fmt"

	"github.com/limaJavier/confsched/pkg/model"
	"github.com/spf13/cobra"
)

func newValidateCommand(app *app) *cobra.Command {
	var file, schedulePath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a schedule against every constraint without invoking a solver",
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, err := model.ProblemFromJson(file)
			if err != nil {
				return fmt.Errorf("cannot parse input file: %w", err)
			}
			schedule, err := model.ScheduleFromJson(schedulePath, problem)
			if err != nil {
				return fmt.Errorf("cannot parse schedule file: %w", err)
			}

			scheduler := model.NewScheduler(nil, model.WithLogger(app.logger), model.WithRecorder(app.recorder))
			report, err := scheduler.Verify(problem, schedule)
			if err != nil {
				return err
			}

			for _, violation := range report.Violations {
				fmt.Fprintln(cmd.OutOrStdout(), violation)
			}
			if !report.Valid {
				if len(schedule) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "empty schedule")
				}
				return app.exit(exitVerifyFail)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid schedule")
			return app.exit(exitSolved)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the input file")
	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "path to the schedule file")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("schedule")
	return cmd
}
