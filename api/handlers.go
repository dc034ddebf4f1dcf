package api

import (
	"clstudio/assist"
	"clstudio/deck"
	"clstudio/log"
	"clstudio/typing"
	"clstudio/workers/docs"
)

var logger = log.GetLogger("API")

// Typing surface names. The code surface shows generated computation layer
// code; the chat surface holds the assistant transcript.
const (
	SurfaceCode = "code"
	SurfaceChat = "chat"
)

// Services holds the long-lived components the handlers operate on
type Services struct {
	Deck      *deck.Controller
	Drag      *deck.DragState
	Typist    *typing.Scheduler
	Assembler *assist.Assembler
	Docs      *docs.Worker
}

var services *Services

// Init wires the handlers to the server's components. Must be called before
// SetupRoutes.
func Init(s *Services) {
	services = s
}
