// Package main demonstrates masked password input.
package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/linedit/linedit"
)

func main() {
	ed, err := linedit.NewPassword("Password: ")
	if err != nil {
		log.Fatal(err)
	}
	defer ed.Close()

	password, err := ed.Run()
	if err != nil {
		if errors.Is(err, linedit.ErrInterrupted) {
			fmt.Println("\nCancelled")
			return
		}
		log.Fatal(err)
	}
	fmt.Printf("Got %d characters\n", len([]rune(password)))
}
