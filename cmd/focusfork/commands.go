package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/focusfork/internal/app"
	"github.com/okian/focusfork/internal/chat"
	"github.com/okian/focusfork/internal/domain/issue"
	"github.com/okian/focusfork/internal/domain/plan"
)

var (
	language   string
	skillLevel string
	issueURL   string
	planTitle  string
	planBody   string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the server is up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		status, err := c.Health(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
		return err
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start a focus session",
	Long: `Start a focus session.

Without --issue the server scouts the best issue for --language and --skill.
With --issue the given GitHub issue URL is planned directly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		sess, err := c.StartSession(cmd.Context(), service.SessionRequest{
			Language: language, SkillLevel: skillLevel, IssueURL: issueURL,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), sess)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Session %s (%s)\n\n", sess.ID, sess.Source)
		printSelection(w, sess.Issue, sess.Score, sess.Reasons)
		fmt.Fprintln(w)
		printPlan(w, sess.Plan)
		return nil
	},
}

var scoutCmd = &cobra.Command{
	Use:   "scout",
	Short: "Pick the best issue without planning it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		sel, err := c.Scout(cmd.Context(), language, skillLevel)
		if err != nil {
			return err
		}
		if sel == nil {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "No suitable issues found. Try again later.")
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), sel)
		}
		printSelection(cmd.OutOrStdout(), sel.Issue, sel.Score, sel.Reasons)
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Synthesize a focus plan for an issue",
	Long: `Synthesize a focus plan from an issue title and body.

Pass --body - to read the body from stdin.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := planBody
		if body == "-" {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			body = string(raw)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		p, err := c.Plan(cmd.Context(), planTitle, body, issueURL)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		printPlan(cmd.OutOrStdout(), p)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search GitHub issues (at most 10, unscored)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		items, err := c.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), items)
		}
		w := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(w, "No issues found.")
		}
		for _, it := range items {
			fmt.Fprintf(w, "%-40s %s\n", it.Repo()+"#"+fmt.Sprint(it.Number), it.Title)
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the conversational scout",
	Long: `Talk to the conversational scout.

With a message argument a single question is asked. Without one an
interactive session reads lines from stdin until EOF or "exit".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		ask := func(history []chat.Message) ([]chat.Message, error) {
			reply, err := c.Chat(cmd.Context(), history)
			if err != nil {
				return history, err
			}
			if jsonOutput {
				if err := printJSON(w, reply); err != nil {
					return history, err
				}
			} else {
				fmt.Fprintln(w, reply.Text)
				for _, it := range reply.Issues {
					fmt.Fprintf(w, "  - %s #%d %s (%s)\n", it.Repo, it.Number, it.Title, it.HTMLURL)
				}
			}
			return append(history, chat.Message{Role: chat.RoleAssistant, Content: reply.Text}), nil
		}

		if len(args) > 0 {
			_, err := ask([]chat.Message{{Role: chat.RoleUser, Content: strings.Join(args, " ")}})
			return err
		}

		var history []chat.Message
		scanner := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprint(w, "> ")
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "exit" || line == "quit" {
				break
			}
			if line != "" {
				history, err = ask(append(history, chat.Message{Role: chat.RoleUser, Content: line}))
				if err != nil {
					return err
				}
			}
			fmt.Fprint(w, "> ")
		}
		return scanner.Err()
	},
}

func init() {
	for _, cmd := range []*cobra.Command{sessionCmd, scoutCmd} {
		cmd.Flags().StringVarP(&language, "language", "l", "", "Repository language (server default when empty)")
		cmd.Flags().StringVarP(&skillLevel, "skill", "s", "", "Skill level: beginner, intermediate or expert")
	}
	sessionCmd.Flags().StringVar(&issueURL, "issue", "", "Plan this GitHub issue URL instead of scouting")

	planCmd.Flags().StringVar(&planTitle, "title", "", "Issue title")
	planCmd.Flags().StringVar(&planBody, "body", "", "Issue body, or - for stdin")
	planCmd.Flags().StringVar(&issueURL, "issue", "", "Issue URL")
	_ = planCmd.MarkFlagRequired("title")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSelection(w io.Writer, it issue.CandidateIssue, score int, reasons []string) {
	fmt.Fprintf(w, "%s\n%s\n", it.Title, it.HTMLURL)
	if labels := it.LabelNames(); len(labels) > 0 {
		fmt.Fprintf(w, "Labels: %s\n", strings.Join(labels, ", "))
	}
	if score > 0 || len(reasons) > 0 {
		fmt.Fprintf(w, "Score: %d\n", score)
		for _, r := range reasons {
			fmt.Fprintf(w, "  + %s\n", r)
		}
	}
}

func printPlan(w io.Writer, p plan.FocusPlan) {
	fmt.Fprintf(w, "Plan (~%d min): %s\n", p.EstimatedTimeMinutes, p.Summary)
	fmt.Fprintln(w, "Done when:")
	for _, c := range p.SuccessCriteria {
		fmt.Fprintf(w, "  [ ] %s\n", c)
	}
	fmt.Fprintln(w, "Steps:")
	for i, s := range p.StepByStepPlan {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}
}
