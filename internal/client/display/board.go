// FILE: internal/client/display/board.go
package display

import (
	"fmt"
	"io"
	"strings"

	"chesssim/internal/board"
	"chesssim/internal/core"
)

// RenderBoard colors a board in the text layout: coordinates cyan, White blue, Black red
func RenderBoard(w io.Writer, text string) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var sb strings.Builder
		for _, char := range line {
			switch {
			case char == board.EmptyGlyph, char == ' ':
				sb.WriteRune(char)
			case (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9'):
				fmt.Fprintf(&sb, "%s%c%s", Cyan, char, Reset)
			default:
				color := ""
				if p, err := board.PieceFromGlyph(char); err == nil {
					color = Red
					if p.Team() == core.TeamWhite {
						color = Blue
					}
				}
				fmt.Fprintf(&sb, "%s%c%s", color, char, Reset)
			}
		}
		fmt.Fprintln(w, sb.String())
	}
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
