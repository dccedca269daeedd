// Package main demonstrates the simplest possible line-editing session.
package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/linedit/linedit"
)

func main() {
	ed, err := linedit.New("Enter something: ")
	if err != nil {
		log.Fatal(err)
	}
	defer ed.Close()

	line, err := ed.Run()
	if err != nil {
		if errors.Is(err, linedit.ErrEOF) || errors.Is(err, linedit.ErrInterrupted) {
			fmt.Println("\nGoodbye!")
			return
		}
		log.Fatal(err)
	}
	fmt.Printf("You entered: %s\n", line)
}
