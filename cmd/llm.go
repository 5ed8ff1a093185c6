package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM requests made for recommendations and quizzes",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f llmFilter
		f.limit, _ = cmd.Flags().GetInt("limit")
		f.purpose, _ = cmd.Flags().GetString("purpose")
		f.material, _ = cmd.Flags().GetString("material")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		// Filters run in Go, so only push the limit down when there are none.
		opts := store.QueryOpts{}
		if !f.filtering() {
			opts.Limit = f.limit
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		return writeLLMEvents(cmd.OutOrStdout(), f.apply(events))
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("event %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		writeLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		return writeLLMUsage(cmd.OutOrStdout(), byPurpose, byModel)
	},
}

type llmFilter struct {
	limit    int
	purpose  string
	material string
}

func (f llmFilter) filtering() bool { return f.purpose != "" || f.material != "" }

func (f llmFilter) apply(events []store.LLMEventRecord) []store.LLMEventRecord {
	out := events[:0:0]
	for _, e := range events {
		if f.limit > 0 && len(out) == f.limit {
			break
		}
		if f.purpose != "" && e.Purpose != f.purpose {
			continue
		}
		if f.material != "" && e.MaterialID != f.material {
			continue
		}
		out = append(out, e)
	}
	return out
}

const timeLayout = "2006-01-02 15:04:05"

func writeLLMEvents(out io.Writer, events []store.LLMEventRecord) error {
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM requests recorded.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPURPOSE\tMODEL\tIN\tOUT\tMS\tOK")
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
	}
	return w.Flush()
}

func writeLLMEvent(out io.Writer, e *store.LLMEventRecord) {
	w := tabwriter.NewWriter(out, 0, 8, 1, ' ', 0)
	row := func(k, v string) { fmt.Fprintf(w, "%s:\t%s\n", k, v) }
	row("ID", strconv.Itoa(e.ID))
	row("Time", e.Timestamp.Local().Format(timeLayout))
	row("Provider", e.Provider)
	row("Model", e.Model)
	row("Purpose", e.Purpose)
	if e.MaterialID != "" {
		row("Material", e.MaterialID)
	}
	row("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
	row("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	row("Success", strconv.FormatBool(e.Success))
	if e.ErrorMessage != "" {
		row("Error", e.ErrorMessage)
	}
	w.Flush()

	section := func(title, body string) {
		rule := strings.Repeat("─", 60)
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(out, "\n%s\n%s\n%s\n%s\n", rule, title, rule, body)
	}
	section("REQUEST", e.RequestBody)
	section("RESPONSE", e.ResponseBody)
}

func writeLLMUsage(out io.Writer, byPurpose, byModel []store.LLMUsageRecord) error {
	if len(byPurpose) == 0 {
		fmt.Fprintln(out, "No LLM usage recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "PURPOSE\tCALLS\tFAILED\tINPUT\tOUTPUT\tAVG MS\t")
	var calls, failed int
	var in, outTok int64
	for _, u := range byPurpose {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.0f\t\n", u.Group, u.Requests, u.Failures, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Requests
		failed += u.Failures
		in += u.InputTokens
		outTok += u.OutputTokens
	}
	fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t%d\t\t\n", calls, failed, in, outTok)
	if err := w.Flush(); err != nil {
		return err
	}
	if len(byModel) == 0 {
		return nil
	}

	fmt.Fprintln(out, "\nEstimated cost (USD)")
	w = tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tMODEL\tCALLS\tCOST")
	var total float64
	var unpriced []string
	for _, u := range byModel {
		cost := "?"
		if p := llm.LookupCost(u.Group); p != nil {
			c := p.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Group)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", truncate(u.Provider, 12), truncate(u.Group, 28), u.Requests, cost)
	}
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%s\t\t\t%s\n", label, formatCost(total))
	if err := w.Flush(); err != nil {
		return err
	}
	if len(unpriced) > 0 {
		fmt.Fprintf(out, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
	return nil
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (recommendation, question-gen)")
	llmListCmd.Flags().StringP("material", "m", "", "Only show requests built from this material id")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
