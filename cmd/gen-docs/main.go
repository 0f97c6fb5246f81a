package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stigoleg/keep-active/internal/config"
	"github.com/stigoleg/keep-active/internal/rules"
)

// This small tool generates shell completions and a man page from the
// argument table in internal/config. Arguments are key=value tokens, so the
// completions offer "key=" words rather than dashed flags.

const appDescription = "Keeps a workstation looking active by nudging the pointer while you are idle, inside configured time windows."

func main() {
	if err := writeCompletions(config.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeMan(config.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func words(args []config.Arg) []string {
	out := make([]string, 0, len(args)+2)
	for _, a := range args {
		out = append(out, a.Key+"=")
	}
	return append(out, "help", "version")
}

func bashCompletion(args []config.Arg) string {
	name := config.AppName
	var b strings.Builder
	b.WriteString("_" + name + "() {\n")
	b.WriteString("  local cur\n")
	b.WriteString("  COMPREPLY=()\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  case \"${cur}\" in\n")
	b.WriteString("    file=*|settings=*|log=*)\n")
	b.WriteString("      COMPREPLY=( $(compgen -f -P \"${cur%%=*}=\" -- \"${cur#*=}\") )\n")
	b.WriteString("      return 0 ;;\n")
	b.WriteString("    ui=*)\n")
	b.WriteString("      COMPREPLY=( $(compgen -W \"ui=true ui=false\" -- \"${cur}\") )\n")
	b.WriteString("      return 0 ;;\n")
	b.WriteString("  esac\n")
	b.WriteString("  COMPREPLY=( $(compgen -W \"" + strings.Join(words(args), " ") + "\" -- \"${cur}\") )\n")
	b.WriteString("  compopt -o nospace 2>/dev/null\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _" + name + " " + name + "\n")
	return b.String()
}

func zshCompletion(args []config.Arg) string {
	name := config.AppName
	var b strings.Builder
	b.WriteString("#compdef " + name + "\n")
	b.WriteString("local -a words\n")
	b.WriteString("words=(\n")
	for _, a := range args {
		b.WriteString(fmt.Sprintf("  '%s=:%s'\n", a.Key, escapeSingleQuotes(a.Desc)))
	}
	b.WriteString("  'help:Show help message'\n")
	b.WriteString("  'version:Show version information'\n")
	b.WriteString(")\n")
	b.WriteString("_describe -S '' 'argument' words\n")
	return b.String()
}

func fishCompletion(args []config.Arg) string {
	name := config.AppName
	var b strings.Builder
	b.WriteString("complete -c " + name + " -f\n")
	for _, a := range args {
		b.WriteString(fmt.Sprintf("complete -c %s -a \"%s=\" -d \"%s\"\n", name, a.Key, escapeDoubleQuotes(a.Desc)))
	}
	b.WriteString(fmt.Sprintf("complete -c %s -a \"help\" -d \"Show help message\"\n", name))
	b.WriteString(fmt.Sprintf("complete -c %s -a \"version\" -d \"Show version information\"\n", name))
	return b.String()
}

func writeCompletions(args []config.Arg) error {
	base := filepath.Join("docs", "completions")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return err
	}

	files := map[string]string{
		config.AppName + ".bash": bashCompletion(args),
		"_" + config.AppName:     zshCompletion(args),
		config.AppName + ".fish": fishCompletion(args),
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(base, file), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func escapeDoubleQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "'\\''")
}

func escapeRoff(s string) string {
	return strings.ReplaceAll(s, "-", "\\-")
}

func manPage(args []config.Arg) string {
	name := config.AppName
	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(name) + "\" \"1\" \"\" \"keep-active\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + name + " \\- " + appDescription + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + name + "\n")
	var synopsis []string
	for _, a := range args {
		synopsis = append(synopsis, "["+a.Key+"="+a.Value+"]")
	}
	b.WriteString(escapeRoff(strings.Join(synopsis, " ")) + "\n")
	b.WriteString(".SH DESCRIPTION\n" + appDescription + "\n")
	b.WriteString(".SH ARGUMENTS\n")
	for _, a := range args {
		b.WriteString(".TP\n\\fB" + a.Key + "=\\fR" + a.Value + "\n" + a.Desc)
		if a.Default != "" {
			b.WriteString(" (default " + escapeRoff(a.Default) + ")")
		}
		b.WriteString("\n")
	}
	b.WriteString(".TP\n\\fBhelp\\fR\nShow help message.\n")
	b.WriteString(".TP\n\\fBversion\\fR\nShow version information.\n")
	b.WriteString(".SH RULES FILE\nOne window per line in the form\n.PP\n.RS\n" + rules.Format + "\n.RE\n.PP\n")
	b.WriteString("for example \\fB" + rules.Example + "\\fR. Blank lines and lines starting with # are ignored.\n")
	b.WriteString(".SH EXAMPLES\n")
	b.WriteString(".TP\n\\fB" + name + "\\fR\nUse rules.txt and a five minute idle threshold.\n")
	b.WriteString(".TP\n\\fB" + name + " idle=2 file=work.txt ui=false\\fR\nRun headless with a two minute threshold.\n")
	b.WriteString(".SH SEE ALSO\nProject homepage: https://github.com/stigoleg/keep-active\n")
	return b.String()
}

func writeMan(args []config.Arg) error {
	if err := os.MkdirAll("man", 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join("man", config.AppName+".1"), []byte(manPage(args)), 0o644)
}
