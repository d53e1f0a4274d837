package communication

import "context"

// Communicator sends command lines to a command protocol peer, such as a
// remote engine, and returns its replies.
type Communicator interface {
	// Execute sends one command line and returns the reply without its
	// status prefix. A reply reporting failure is returned as an error.
	Execute(ctx context.Context, command string) (string, error)
}

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse reports whether the command succeeded and its reply text.
type CommandResponse struct {
	OK       bool   `json:"ok"`
	Response string `json:"response"`
	Quit     bool   `json:"quit,omitempty"`
}

// BoardResponse is the body of GET /api/board.
type BoardResponse struct {
	Width        int     `json:"width"`
	Komi         float64 `json:"komi"`
	PlayerToMove string  `json:"player_to_move"`
	GameIsOver   bool    `json:"game_is_over"`
	Board        string  `json:"board"`
}
