package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/analytics"
	"github.com/abhisek/studydesk/internal/persist"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show productivity statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		svc := analytics.NewService(st.SessionRepo(), st.EventRepo())
		s, err := svc.Stats(ctx, persist.LocalUserID, days)
		if err != nil {
			return fmt.Errorf("compute stats: %w", err)
		}

		fmt.Printf("Sessions:        %d\n", s.TotalSessions)
		fmt.Printf("Focus time:      %s\n", formatMinutes(s.TotalMinutes))
		fmt.Printf("Average session: %.1f min\n", s.AverageSessionMinutes)
		fmt.Printf("AI-tuned:        %.0f%%\n", s.AIRecommendedShare*100)
		fmt.Printf("Breaks taken:    %d\n", s.BreakSessions)
		if s.QuizAttempts > 0 {
			fmt.Printf("Quizzes:         %d (%.0f%% correct)\n", s.QuizAttempts, s.QuizAccuracy*100)
		}
		if s.BestDay != nil {
			fmt.Printf("Best day:        %s, %s\n", s.BestDay.Date.Format("Mon Jan 2"), formatMinutes(s.BestDay.Minutes))
		}

		fmt.Println()
		fmt.Printf("Last %d days\n", len(s.Days))
		fmt.Println(strings.Repeat("─", 48))
		maxMin := 0
		for _, d := range s.Days {
			maxMin = max(maxMin, d.Minutes)
		}
		for _, d := range s.Days {
			bar := 0
			if maxMin > 0 {
				bar = d.Minutes * 30 / maxMin
			}
			fmt.Printf("%s  %-30s %s\n", d.Date.Format("Mon 01/02"), strings.Repeat("█", bar), formatMinutes(d.Minutes))
		}

		_, total, err := achievements.NewService(st.EventRepo(), st.SessionRepo()).Counts(ctx)
		if err != nil {
			return fmt.Errorf("count achievements: %w", err)
		}
		fmt.Println()
		fmt.Printf("Achievements:    %d\n", total)
		return nil
	},
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func init() {
	statsCmd.Flags().IntP("days", "d", analytics.DefaultDays, "Number of days in the per-day chart")
}
