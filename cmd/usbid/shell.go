package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"github.com/ardnew/usbid/pkg/usbid"
)

// shell executes interactive commands against a database.
type shell struct {
	db  *usbid.Database
	out io.Writer
}

func runShell(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var src sourceFlags
	src.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := src.applyLog(stderr); err != nil {
		return err
	}

	db, err := src.open()
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "usbid> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	sh := &shell{db: db, out: rl.Stdout()}
	sh.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if sh.exec(line) {
			return nil
		}
	}
}

func completer() *readline.PrefixCompleter {
	sections := make([]readline.PrefixCompleterInterface, 0, len(usbid.Sections()))
	for _, s := range usbid.Sections() {
		sections = append(sections, readline.PcItem(s.String()))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("get", sections...),
		readline.PcItem("dump", sections...),
		readline.PcItem("find"),
		readline.PcItem("stats"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "help", "?":
		sh.printHelp()
	case "get", "g":
		sh.cmdGet(args, false)
	case "dump", "d":
		sh.cmdGet(args, true)
	case "find", "f":
		sh.cmdFind(strings.Join(args, " "))
	case "stats":
		printSummary(sh.out, sh.db)
	case "quit", "exit", "q":
		return true
	default:
		if _, ok := usbid.ParseSection(cmd); ok {
			sh.cmdGet(parts, false)
			return false
		}
		fmt.Fprintf(sh.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (sh *shell) cmdGet(args []string, dump bool) {
	if len(args) != 2 {
		fmt.Fprintln(sh.out, "Usage: get <section> <id>[:<id>[:<id>]]")
		return
	}
	chain, err := query(sh.db, args[0], args[1])
	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(sh.out, formatChain(chain))
	if dump {
		dumper.Fdump(sh.out, chain[len(chain)-1].val)
	}
}

// cmdFind lists vendors and devices whose names contain text, ignoring case.
func (sh *shell) cmdFind(text string) {
	if text == "" {
		fmt.Fprintln(sh.out, "Usage: find <text>")
		return
	}
	needle := strings.ToLower(text)
	match := func(name string) bool {
		return strings.Contains(strings.ToLower(name), needle)
	}

	tw := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	n := 0
	for v := range sh.db.Vendors().Values() {
		if match(v.Name()) {
			fmt.Fprintf(tw, "%04x\t%s\n", v.ID(), v.Name())
			n++
		}
		for d := range v.Devices() {
			if match(d.Name()) {
				fmt.Fprintf(tw, "%04x:%04x\t%s %s\n", v.ID(), d.ID(), v.Name(), d.Name())
				n++
			}
		}
	}
	tw.Flush()
	fmt.Fprintf(sh.out, "%d match(es)\n", n)
}

func (sh *shell) printHelp() {
	fmt.Fprintln(sh.out, `
usbid shell commands:
  get <section> <ids>   - Look up a record, e.g. get vendors 1d6b:0002
  <section> <ids>       - Same as get
  dump <section> <ids>  - Look up a record and dump its Go value
  find <text>           - Search vendor and device names
  stats                 - Show record counts per section
  help                  - Show this help
  exit                  - Leave the shell`)
}
