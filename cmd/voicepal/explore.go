package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicepal-ai/voicepal/internal/adapters/id"
	"github.com/voicepal-ai/voicepal/internal/application/session"
	"github.com/voicepal-ai/voicepal/internal/domain/models"
)

// exploreCmd creates the explore command for interactive sessions
func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Interactive thought exploration",
		Long: `Start an interactive exploration session in the terminal.

Type a thought to have it refined into clear prose with three challenge
questions. Pick a question by number to dig deeper, or switch into an
adversarial debate on your current stance.

Commands:
  1 / 2 / 3   select a challenge question
  /confirm    lock in the selected question and continue
  /debate     start a debate on the current thought
  /end        end the debate and start fresh
  /summary    generate a blog-style summary of the session
  exit        quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(context.Background())
		},
	}
}

func runExplore(ctx context.Context) error {
	idGen := id.New()
	engine := session.NewEngine(models.NewSession(idGen.GenerateSessionID()), llmService)

	fmt.Println("Voicepal exploration session. Type a thought to begin.")
	fmt.Println(strings.Repeat("-", 80))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		lower := strings.ToLower(input)
		if lower == "exit" || lower == "quit" {
			fmt.Println("\nGoodbye!")
			break
		}

		if err := handleInput(ctx, engine, input); err != nil {
			fmt.Printf("  ! %v\n", err)
		}
	}

	return scanner.Err()
}

func handleInput(ctx context.Context, engine *session.Engine, input string) error {
	snap := engine.Snapshot()

	switch {
	case input == "/confirm":
		step, err := engine.ConfirmFocus()
		if err != nil {
			return err
		}
		fmt.Printf("\nStep %d locked in. Now respond to:\n  %s\n\n", step.Step, step.FocusQuestion)
		return nil

	case input == "/debate":
		if err := engine.StartDebate(ctx); err != nil {
			return err
		}
		fmt.Println("\nEntering debate mode...")
		return awaitEvent(engine)

	case input == "/end":
		if err := engine.EndDebate(); err != nil {
			return err
		}
		fmt.Println("\nDebate ended. Starting fresh; type a new thought.")
		return nil

	case input == "/summary":
		if err := engine.RequestSummary(ctx); err != nil {
			return err
		}
		fmt.Println("\nGenerating summary...")
		return awaitEvent(engine)

	case snap.Mode == models.ModeGuided && snap.Pending != nil && isQuestionIndex(input):
		n, _ := strconv.Atoi(input)
		question := snap.Pending.ChallengeQuestions[n-1]
		if err := engine.SelectFocus(question); err != nil {
			return err
		}
		fmt.Printf("  Selected: %s\n  Type /confirm to lock it in.\n", question)
		return nil

	case snap.Mode == models.ModeDebate:
		if err := engine.SubmitRebuttal(ctx, input); err != nil {
			return err
		}
		return awaitEvent(engine)

	default:
		if err := engine.SubmitThought(ctx, input); err != nil {
			return err
		}
		fmt.Println("  Refining...")
		return awaitEvent(engine)
	}
}

func isQuestionIndex(input string) bool {
	n, err := strconv.Atoi(input)
	return err == nil && n >= 1 && n <= models.ChallengeQuestionCount
}

// awaitEvent blocks until the dispatched generation call completes and
// renders its result.
func awaitEvent(engine *session.Engine) error {
	select {
	case ev := <-engine.Events():
		renderEvent(ev)
		return nil
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timed out waiting for a response")
	}
}

func renderEvent(ev session.Event) {
	switch ev.Type {
	case session.EventThoughtRefined:
		fmt.Printf("\nRefined thought:\n  %s\n\nChallenge questions:\n", ev.Thought.CorrectedText)
		for i, q := range ev.Thought.ChallengeQuestions {
			fmt.Printf("  %d. %s\n", i+1, q)
		}
		fmt.Println("\nPick a question by number, /debate to argue it, or /summary to wrap up.")

	case session.EventDebateReply:
		fmt.Printf("\nOpponent:\n  %s\n\nType your counter-argument, or /end to stop.\n", ev.Reply)

	case session.EventSummaryReady:
		fmt.Printf("\n%s\n\n%s\n%s\n", strings.Repeat("=", 80), ev.Summary, strings.Repeat("=", 80))

	case session.EventProcessingFailed:
		fmt.Printf("\nProcessing failed: %s\n", ev.Detail)
	}
}
