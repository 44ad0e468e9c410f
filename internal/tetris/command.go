package tetris

import (
	"fmt"
	"strings"
)

// Command is a discrete player input.
type Command int

const (
	CmdNone Command = iota
	CmdMoveLeft
	CmdMoveRight
	CmdRotateCW
	CmdRotateCCW
	CmdSoftDrop
	CmdHardDrop
	CmdHold
	CmdPause  // toggles pause
	CmdResume // resumes only
)

var commandNames = map[Command]string{
	CmdNone:      "none",
	CmdMoveLeft:  "left",
	CmdMoveRight: "right",
	CmdRotateCW:  "cw",
	CmdRotateCCW: "ccw",
	CmdSoftDrop:  "soft",
	CmdHardDrop:  "hard",
	CmdHold:      "hold",
	CmdPause:     "pause",
	CmdResume:    "resume",
}

// String returns the script name of the command.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCommand converts a script name (case-insensitive) back into a Command.
func ParseCommand(s string) (Command, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range commandNames {
		if name == s {
			return c, nil
		}
	}
	return CmdNone, fmt.Errorf("tetris: unknown command %q", s)
}
