package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/tdict/pkg"
)

const defaultEditor = "vi"

// editDataCommand implements [tea.ExecCommand] for the data
// edit-decode-retry loop. It writes the current data as YAML to a temp file,
// opens the user's editor, and decodes the result. On a decode error the
// user is prompted to re-edit; declining keeps the previous data.
type editDataCommand struct {
	sess    *session
	ctxFunc func() context.Context
	changed bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editDataCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editDataCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editDataCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An unchanged or emptied file leaves the data
// as it was.
func (c *editDataCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := c.sess.dataYAML(ctx)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", pkg.Name+"-repl-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		edited, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(edited)) == 0 || bytes.Equal(edited, content) {
			return nil
		}

		decodeErr := c.sess.setData(edited)
		c.sess.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("content_length", len(edited)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.changed = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = edited
	}
}

// runEditor launches the user's editor on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
