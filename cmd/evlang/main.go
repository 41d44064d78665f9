// Command evlang wires the lang -> builder -> runtime pipeline into a
// runnable CLI, mirroring the teacher's main.go/vm/run.go end-to-end flow
// (grounded on KTStephano/GVM's main.go), using github.com/urfave/cli/v2
// in place of the teacher's hand-rolled flag parsing.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/evlang/evlang/builder"
	"github.com/evlang/evlang/instr"
	"github.com/evlang/evlang/lang"
	"github.com/evlang/evlang/runtime"
	"github.com/evlang/evlang/store"
)

func main() {
	log := logrus.New()

	app := &cli.App{
		Name:  "evlang",
		Usage: "compile and run evlang expressions",
		Commands: []*cli.Command{
			runCommand(log),
			disasmCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand(log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "compile and execute a source file",
		ArgsUsage: "<file> [entry]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "trace", Usage: "enable per-opcode trace logging"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().Get(0)
			if path == "" {
				return cli.Exit("usage: evlang run <file> [entry]", 1)
			}
			entry := c.Args().Get(1)
			if entry == "" {
				entry = "main"
			}

			if c.Bool("trace") {
				log.SetLevel(logrus.TraceLevel)
			}

			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			stream, st, err := compileSource(string(source), entry)
			if err != nil {
				return err
			}

			vm := runtime.New(st, stream, runtime.WithLogger(log))
			result, err := vm.Execute(entry)
			if err != nil {
				return err
			}

			fmt.Println(describeResult(st, result))
			return nil
		},
	}
}

func disasmCommand() *cli.Command {
	return &cli.Command{
		Name:      "disasm",
		Usage:     "compile a source file and print its instruction stream",
		ArgsUsage: "<file> [entry]",
		Action: func(c *cli.Context) error {
			path := c.Args().Get(0)
			if path == "" {
				return cli.Exit("usage: evlang disasm <file> [entry]", 1)
			}
			entry := c.Args().Get(1)
			if entry == "" {
				entry = "main"
			}

			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			stream, _, err := compileSource(string(source), entry)
			if err != nil {
				return err
			}

			for i, instruction := range stream.Instructions {
				fmt.Printf("%4d  %s\n", i, instruction)
			}
			return nil
		},
	}
}

func compileSource(source, entry string) (*instr.Stream, *store.Store, error) {
	tokens, err := lang.Lex(source)
	if err != nil {
		return nil, nil, err
	}
	tree, err := lang.Parse(tokens)
	if err != nil {
		return nil, nil, err
	}
	return builder.Compile(entry, tree)
}

func describeResult(st *store.Store, addr store.Address) string {
	kind, err := st.GetDataType(addr)
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	switch kind {
	case store.KindNumber:
		n, _ := st.GetNumber(addr)
		if n.IsFloat {
			return fmt.Sprintf("%g", n.Float)
		}
		return fmt.Sprintf("%d", n.Int)
	case store.KindCharList, store.KindConcatenation:
		text, _ := st.MaterializeCharacters(addr)
		return text
	case store.KindTrue:
		return "true"
	case store.KindFalse:
		return "false"
	case store.KindUnit:
		return "unit"
	default:
		return fmt.Sprintf("<%s @%d>", kind, addr)
	}
}
