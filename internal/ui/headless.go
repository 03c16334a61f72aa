package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samdwyer/apprentice/internal/game"
	"github.com/samdwyer/apprentice/internal/logger"
	"github.com/samdwyer/apprentice/internal/msglog"
	"github.com/samdwyer/apprentice/internal/save"
)

// RunScript plays text commands from in, one per line, writing each
// command's messages to out. Blank lines and lines starting with '#' are
// skipped. Besides the game commands it understands "show" (print a frame),
// "save N" and "load N". A frame is printed when the script ends.
func RunScript(ctx context.Context, g *game.Game, saves *save.Store, in io.Reader, out io.Writer) error {
	text := NewTextRenderer()
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() && g.Running() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintf(out, "$ %s\n", line)

		fields := strings.Fields(strings.ToLower(line))
		switch fields[0] {
		case "show":
			fmt.Fprintln(out, text.Render(g))
			continue
		case "save", "load":
			slot, err := slotArg(fields)
			if err != nil {
				fmt.Fprintf(out, "! %v\n", err)
				continue
			}
			var msgs []msglog.Message
			if fields[0] == "save" {
				msgs = SaveSlot(ctx, g, saves, slot)
			} else {
				msgs = LoadSlot(ctx, g, saves, slot)
			}
			for _, m := range msgs {
				fmt.Fprintf(out, "> %s\n", m.Text)
			}
			continue
		}

		cmd, err := game.ParseCommand(line)
		if err != nil {
			logger.For("ui").WithField("line", lineNo).WithError(err).Warn("script command ignored")
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		res := g.Handle(ctx, cmd)
		for _, m := range res.Messages {
			fmt.Fprintf(out, "> %s\n", m.Text)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	fmt.Fprintln(out, text.Render(g))
	return nil
}

func slotArg(fields []string) (int, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("%s takes a slot number", fields[0])
	}
	slot, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("bad slot %q", fields[1])
	}
	return slot, nil
}
