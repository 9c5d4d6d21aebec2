package render

import (
	"io"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"
)

// Terminal prints payload as half-block characters, compact enough for
// a normal console. Level letters match the PNG and SVG mapping.
func Terminal(w io.Writer, payload string, l Level) {
	qrterminal.GenerateHalfBlock(payload, qrLevel(l), w)
}

func qrLevel(l Level) qr.Level {
	switch l {
	case LevelLow:
		return qr.L
	case LevelQuartile:
		return qr.Q
	case LevelHigh:
		return qr.H
	default:
		return qr.M
	}
}
