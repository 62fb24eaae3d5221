package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"heron-engine/heronmg"
	"heron-engine/uci"
)

func main() {
	debug := flag.Bool("debug", false, "Log search diagnostics to stderr")
	flag.Parse()

	level := zerolog.WarnLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	// Protocol output owns stdout; diagnostics go to stderr only.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	tables := heronmg.NewAttackTables()
	session := uci.NewSession(tables, os.Stdout, log)
	if err := session.Run(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "uci loop: %v\n", err)
		os.Exit(1)
	}
}
