package main

import "fmt"

// ==============================
// Commands (side effects)
// ==============================

// Command represents a drawing side effect to be executed by the application
// loop against the Renderer.
type Command interface {
	commandMarker()
	String() string
}

// CmdPaintDot lays a filled circle of ink on the canvas.
type CmdPaintDot struct {
	Center Point
	Radius int
	Color  Color
}

func (CmdPaintDot) commandMarker() {}
func (c CmdPaintDot) String() string {
	return fmt.Sprintf("CmdPaintDot(x=%d, y=%d, r=%d, color=%s)", c.Center.X, c.Center.Y, c.Radius, c.Color)
}

// CmdDrawSizeSelector redraws the brush size widget for Brush. Brush is the
// state at emission time, so commands replay in the order they were decided.
type CmdDrawSizeSelector struct {
	Brush BrushState
}

func (CmdDrawSizeSelector) commandMarker() {}
func (c CmdDrawSizeSelector) String() string {
	return fmt.Sprintf("CmdDrawSizeSelector(color=%s, index=%d)", c.Brush.ActiveColor, c.Brush.ThicknessIndex)
}
