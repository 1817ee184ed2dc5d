package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Rrens/ecolearn/internal/domain"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive tutoring session",
	Long: `Start an interactive tutoring session.

The tutor first asks a few assessment questions, then assigns a learning path
and answers questions about environmental topics.

Examples:
  # Chat in the default session
  tutor chat

  # Continue a named session
  tutor chat --session alice`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return runChat(cmd.Context(), a.Tutor, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// Turner processes one learner message
type Turner interface {
	ProcessTurn(ctx context.Context, raw, sessionID string) (domain.Response, error)
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "bye":
		return true
	}
	return false
}

func runChat(ctx context.Context, tutor Turner, sessionID string, in io.Reader, out io.Writer) error {
	printWelcome(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n\nSession ended. Thanks for using EcoLearn Tutor!")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if isQuit(input) {
			fmt.Fprintln(out, "\nThanks for learning with EcoLearn Tutor! Goodbye!")
			return nil
		}
		if input == "" {
			fmt.Fprintln(out, "Please type something to continue...")
			continue
		}

		resp, err := tutor.ProcessTurn(ctx, input, sessionID)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		render(out, resp)
	}
}

func printWelcome(out io.Writer) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(out, "\n%s\nWELCOME TO ECOLEARN TUTOR\n%s\n", rule, rule)
	fmt.Fprintln(out, "I'm your environmental education assistant!")
	fmt.Fprintln(out, "\nFIRST: I'll ask a few questions to understand your interests")
	fmt.Fprintln(out, "THEN: I'll create a personalized learning path for you")
	fmt.Fprintln(out, "FINALLY: We'll explore environmental topics together!")
	fmt.Fprintln(out, "\nType 'quit', 'exit', or 'bye' to end the session")
	fmt.Fprintln(out, strings.Repeat("-", 50))
}

func render(out io.Writer, resp domain.Response) {
	switch r := resp.(type) {
	case domain.AssessmentQuestion:
		fmt.Fprintf(out, "\nEcoLearn: %s\n", r.Question)
		if r.Progress != "" {
			fmt.Fprintf(out, "Assessment Progress: %s\n", r.Progress)
		}

	case domain.LearningStart:
		fmt.Fprintf(out, "\nEcoLearn: %s\n", r.Message)
		if len(r.LearningPath) > 0 {
			fmt.Fprintln(out, "\nYour personalized learning path:")
			for i, topic := range r.LearningPath {
				fmt.Fprintf(out, "  %d. %s\n", i+1, topic)
			}
		}
		fmt.Fprintln(out, "\nNow you can ask me anything about environmental topics!")

	case domain.LearningContent:
		fmt.Fprintln(out, "\nEcoLearn:")
		for _, item := range r.Content {
			fmt.Fprintf(out, "%s: %s\n", contentLabel(item.Kind), item.Content)
		}
		if r.ProgressCheck != nil {
			fmt.Fprintf(out, "PROGRESS: %s\n", r.ProgressCheck.Message)
		}

	case domain.ProgressCheck:
		fmt.Fprintf(out, "\nEcoLearn: %s\n", r.Message)

	case domain.ProgressEvaluation:
		fmt.Fprintf(out, "\nEcoLearn: %s\n", r.Recommendation)
		fmt.Fprintf(out, "Interactions so far: %d\n", r.TotalInteractions)
	}
}

func contentLabel(kind domain.ContentKind) string {
	switch kind {
	case domain.ContentExplanation:
		return "EXPLANATION"
	case domain.ContentExamples:
		return "EXAMPLES"
	case domain.ContentVisualSuggestion:
		return "VISUAL AID"
	}
	return strings.ToUpper(string(kind))
}
