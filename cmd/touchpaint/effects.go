package main

import "log/slog"

// runEffect executes a single reducer-emitted Command against the Renderer.
//
// It must never call Reduce(); the application loop sequences
// Reduce -> Commands -> runEffect.
func runEffect(r *Renderer, cmd Command, logger *slog.Logger) error {
	switch c := cmd.(type) {
	case CmdPaintDot:
		r.PaintDot(c.Center, c.Radius, c.Color)

	case CmdDrawSizeSelector:
		r.DrawSizeSelector(c.Brush)

	default:
		logger.Warn("unknown command type", "command", cmd.String())
		return errUnknownCommand{cmd: cmd}
	}
	return nil
}

type errUnknownCommand struct {
	cmd Command
}

func (e errUnknownCommand) Error() string { return "unknown command: " + e.cmd.String() }
