package main

import (
	"errors"
	"fmt"
	"log"
	"os"
)

func main() {
	if err := run(); err != nil {
		exit(err)
	}
}

func run() error {
	return errors.New("boom")
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, os.ErrNotExist) {
		log.Fatal(err)
	}
	os.Exit(1)
}
