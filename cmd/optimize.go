package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/sajtmaskin/prompt-gateway/internal/engine"
	"github.com/sajtmaskin/prompt-gateway/internal/tokens"
)

// runOptimize runs the engine once against stdin and prints the
// optimized prompt on stdout. Metadata goes to stderr so the output
// stays pipeable.
func runOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	method := fs.String("method", "", "build method (audit, wizard, freeform)")
	intent := fs.String("intent", "", "build intent (free, category, template, app, ...)")
	first := fs.Bool("first", true, "treat as the first prompt of a build")
	planMode := fs.Bool("plan-mode", false, "plan mode enabled for first prompts")
	attachments := fs.Int("attachments", 0, "number of attachments on the request")
	hardCap := fs.Int("hard-cap", 0, "hard output cap in characters (0 = system max)")
	showMeta := fs.Bool("meta", false, "print decision metadata as JSON on stderr")
	_ = fs.Parse(args)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "reading prompt from stdin; end with Ctrl-D")
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read stdin: %v\n", err)
		os.Exit(1)
	}

	res := engine.Optimize(engine.OptimizeInput{
		Message:                    string(raw),
		BuildMethod:                *method,
		BuildIntent:                *intent,
		IsFirstPrompt:              *first,
		PlanModeFirstPromptEnabled: *planMode,
		AttachmentsCount:           *attachments,
		HardCap:                    *hardCap,
	})

	fmt.Print(res.FinalMessage)

	if *showMeta {
		out := struct {
			Meta            engine.StrategyMeta `json:"meta"`
			EstimatedTokens int                 `json:"estimatedTokens"`
		}{res.Meta, tokens.Estimate(res.FinalMessage)}

		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	}
}
