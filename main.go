package main

import (
	cmd "github.com/tamnhu11204/project-chatbot/cmd/chatbot"
	"github.com/tamnhu11204/project-chatbot/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting chatbot")
	cmd.Execute()
}
