// Package main demonstrates a small interactive shell: fuzzy completion,
// file-backed history with reverse search, and an evaluation hook.
package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/linedit/linedit"
	"go.uber.org/zap"
)

var commands = []string{
	"help",
	"status",
	"list",
	"create project",
	"create file",
	"delete",
	"exit",
}

func evaluate(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "delete ") && len(strings.Fields(trimmed)) < 2 {
		return "", errors.New("delete needs a target")
	}
	return trimmed, nil
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ed, err := linedit.New("shell> ",
		linedit.WithCompleter(linedit.NewFuzzyCompleter(commands)),
		linedit.WithFileHistory("~/.linedit_shell_history", 500),
		linedit.WithEvaluator(evaluate),
		linedit.WithColorScheme(linedit.ThemeDracula),
		linedit.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer ed.Close()

	fmt.Println("Type 'exit' to quit; Tab completes, Ctrl+R searches history.")
	for {
		line, err := ed.Run()
		switch {
		case errors.Is(err, linedit.ErrEOF), errors.Is(err, linedit.ErrInterrupted):
			fmt.Println("\nGoodbye!")
			return
		case err != nil:
			var evalErr *linedit.EvalError
			if errors.As(err, &evalErr) {
				fmt.Printf("error: %v\n", evalErr.Err)
				continue
			}
			log.Fatal(err)
		}

		switch line {
		case "":
			continue
		case "exit":
			fmt.Println("Goodbye!")
			return
		case "help":
			fmt.Println("commands:", strings.Join(commands, ", "))
		default:
			fmt.Printf("ran: %s\n", line)
		}
	}
}
