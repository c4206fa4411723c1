//go:build !baremetal

// halshell is an interactive shell over an emulated SAM3X: bring the
// clock tree up and down, gate peripherals, and poke pins without a
// board attached.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-tty"

	"github.com/compenguy/atsam3xa/chip"
)

func main() {
	variantName := flag.String("variant", "sam3x8e", "chip variant to emulate")
	flag.Parse()

	variant, ok := chip.ByName(*variantName)
	if !ok {
		log.Fatalf("unknown variant %q", *variantName)
	}

	sh, err := newShell(variant)
	if err != nil {
		log.Fatalf("bring-up: %v", err)
	}

	t, err := tty.Open()
	if err != nil {
		log.Fatalf("tty: %v", err)
	}
	defer t.Close()

	fmt.Printf("%s emulation, type help\n", variant.Name)
	for {
		fmt.Print("hal> ")
		line, err := t.ReadString()
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Fatalf("tty: %v", err)
		}
		if line == "exit" || line == "quit" {
			return
		}
		out, err := sh.exec(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}
