package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"recent":         {"browse", "show <id>"},
	"browse":         {"show <id>", "post create"},
	"show":           {"claim <id>", "browse"},
	"post create":    {"mine", "browse"},
	"post update":    {"show <id>", "mine"},
	"post delete":    {"mine"},
	"claim":          {"recovered"},
	"mine":           {"post update <id>", "post delete <id>"},
	"recovered":      {"browse"},
	"register":       {"post create", "whoami"},
	"profile update": {"whoami"},
	"config show":    {"whoami"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "whereisit " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
