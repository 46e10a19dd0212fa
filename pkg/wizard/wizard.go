// Package wizard drives the interactive guided installation session over a
// built plan. The engine never executes anything itself: it hands command
// text to the operator, optionally through the clipboard, and records the
// progress and notes they report back.
package wizard

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jacjconsulting/apexpilot/pkg/plan"
)

// Signal is the outcome of one wizard loop level. Interruption travels as a
// value through the step and stage loops so the session can unwind without
// losing collected notes.
type Signal int

const (
	// SignalContinue stays at the current prompt.
	SignalContinue Signal = iota
	// SignalAdvance is done at this level and moves on.
	SignalAdvance
	// SignalInterrupt leaves the session, skipping everything that remains.
	SignalInterrupt
)

// Prompter supplies one line of operator input per call. A read error is
// treated as a request to leave the session.
type Prompter interface {
	ReadLine(prompt string) (string, error)
}

// Copier places text on the system clipboard. Failures are surfaced as a
// diagnostic and never stop the session.
type Copier interface {
	Copy(text string) error
}

// Note is one operator annotation captured during the session, keyed by the
// stage and step it was written at.
type Note struct {
	Stage string
	Step  string
	Text  string
}

// Session runs the interactive wizard for a single immutable plan.
type Session struct {
	plan     plan.Plan
	prompter Prompter
	copier   Copier
	out      io.Writer
	notes    []Note
}

// New creates a session over the given plan.
func New(p plan.Plan, prompter Prompter, copier Copier, out io.Writer) *Session {
	return &Session{plan: p, prompter: prompter, copier: copier, out: out}
}

// Notes returns the annotations collected so far, in entry order.
func (s *Session) Notes() []Note { return s.notes }

// Run drives the stage selection loop until the operator exits or
// interrupts. Collected notes are flushed exactly once on the way out,
// however the session ends.
func (s *Session) Run() {
	if s.plan.Empty() {
		fmt.Fprintln(s.out, "\nGuided wizard is unavailable: make sure the project has container information.")
		return
	}

	fmt.Fprintln(s.out, "\n--- Guided APEX Installation Wizard ---")
	fmt.Fprintln(s.out, "Pick the stage you need. You can run them individually or execute all of them in sequence.")

	defer s.flushNotes()

	for {
		s.printStages()
		line, err := s.prompter.ReadLine("Select a stage number, type its keyword, use 'a' for all, or press Enter to exit: ")
		if err != nil {
			return
		}
		choice := strings.ToLower(strings.TrimSpace(line))
		if choice == "" {
			return
		}

		batch := s.selectStages(choice)
		if batch == nil {
			fmt.Fprintln(s.out, "Unknown option. Try again.")
			continue
		}

		for _, stage := range batch {
			if s.runStage(stage) == SignalInterrupt {
				return
			}
		}
	}
}

func (s *Session) printStages() {
	fmt.Fprintln(s.out, "\nAvailable stages:")
	for index, stage := range s.plan.Stages {
		fmt.Fprintf(s.out, "  [%d] %s — %s\n", index, stage.Title, stage.Description)
	}
}

// selectStages resolves the operator's choice to the stages to run, or nil
// when the input is not recognized.
func (s *Session) selectStages(choice string) []plan.Stage {
	if choice == "a" || choice == "all" {
		return s.plan.Stages
	}
	if index, ok := parseIndex(choice); ok {
		if index < len(s.plan.Stages) {
			return s.plan.Stages[index : index+1]
		}
		return nil
	}
	for _, stage := range s.plan.Stages {
		if strings.ToLower(stage.Key) == choice {
			return []plan.Stage{stage}
		}
	}
	return nil
}

// runStage walks the stage's steps strictly in order. The first interrupted
// step stops the stage and propagates upward.
func (s *Session) runStage(stage plan.Stage) Signal {
	fmt.Fprintf(s.out, "\n=== %s ===\n", stage.Title)
	fmt.Fprintln(s.out, stage.Description)

	for index, step := range stage.Steps {
		if s.runStep(stage, step, index+1) == SignalInterrupt {
			return SignalInterrupt
		}
	}
	return SignalAdvance
}

// runStep presents one step: an optional command copy phase followed by the
// acknowledgement phase. Steps without commands start directly at the
// acknowledgement phase.
func (s *Session) runStep(stage plan.Stage, step plan.Step, number int) Signal {
	fmt.Fprintf(s.out, "\n[%s %02d] %s — %s\n", strings.ToUpper(stage.Key), number, step.Title, step.Context)
	fmt.Fprintln(s.out, step.Description)

	if len(step.Commands) > 0 {
		fmt.Fprintln(s.out, "Suggested commands:")
		for index, command := range step.Commands {
			fmt.Fprintf(s.out, "  (%d) %s\n", index+1, command)
		}

		for {
			signal := s.promptCopy(step)
			if signal == SignalInterrupt {
				return SignalInterrupt
			}
			if signal == SignalAdvance {
				break
			}
		}
	}

	for {
		switch s.promptAcknowledge(stage, step) {
		case SignalAdvance:
			return SignalAdvance
		case SignalInterrupt:
			return SignalInterrupt
		}
	}
}

// promptCopy handles one round of the command copy phase. Empty input
// advances to the acknowledgement phase; anything else either copies or
// re-prompts without advancing.
func (s *Session) promptCopy(step plan.Step) Signal {
	line, err := s.prompter.ReadLine("Select a command number to copy, 'a' to copy all, or press Enter to continue: ")
	if err != nil {
		return SignalInterrupt
	}
	choice := strings.ToLower(strings.TrimSpace(line))

	switch {
	case choice == "":
		return SignalAdvance
	case choice == "a" || choice == "all":
		if err := s.copier.Copy(strings.Join(step.Commands, "\n")); err != nil {
			fmt.Fprintln(s.out, "Could not copy commands to the clipboard.")
		} else {
			fmt.Fprintln(s.out, "All commands copied to clipboard.")
		}
	default:
		number, ok := parseIndex(choice)
		if !ok {
			fmt.Fprintln(s.out, "Unknown option. Please try again.")
			break
		}
		if number < 1 || number > len(step.Commands) {
			fmt.Fprintln(s.out, "Command number out of range.")
			break
		}
		if err := s.copier.Copy(step.Commands[number-1]); err != nil {
			fmt.Fprintln(s.out, "Clipboard copy failed on this system.")
		} else {
			fmt.Fprintln(s.out, "Command copied to clipboard.")
		}
	}
	return SignalContinue
}

// parseIndex accepts unsigned decimal tokens only. Signed input such as
// "-1" or "+0" is not a selection and falls through to the unknown-option
// path.
func parseIndex(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// promptAcknowledge handles one round of the acknowledgement phase: empty
// input completes the step, a note stays on it, quit interrupts.
func (s *Session) promptAcknowledge(stage plan.Stage, step plan.Step) Signal {
	line, err := s.prompter.ReadLine("Press Enter when the step is done, 'n' to log a note, or 'q' to exit the wizard: ")
	if err != nil {
		return SignalInterrupt
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return SignalAdvance
	case "n", "note":
		text, err := s.prompter.ReadLine("Write your note for this step: ")
		if err != nil {
			return SignalInterrupt
		}
		if text = strings.TrimSpace(text); text != "" {
			s.notes = append(s.notes, Note{Stage: stage.Title, Step: step.Title, Text: text})
		}
		return SignalContinue
	case "q", "quit":
		fmt.Fprintln(s.out, "Wizard interrupted. Resume later from the remaining steps.")
		return SignalInterrupt
	default:
		fmt.Fprintln(s.out, "Unknown option. Please try again.")
		return SignalContinue
	}
}

// flushNotes prints the ledger in entry order. It runs exactly once per
// session, whether the wizard ended normally or was interrupted.
func (s *Session) flushNotes() {
	if len(s.notes) > 0 {
		fmt.Fprintln(s.out, "\nSession notes:")
		for _, note := range s.notes {
			fmt.Fprintf(s.out, "  - %s / %s: %s\n", note.Stage, note.Step, note.Text)
		}
	}
	fmt.Fprintln(s.out, "\nWizard closed. Re-run it if you need to revisit any stage.")
}
