package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
// AdminOnly gates on the admin set, RootOnly on the configured root admins.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	RootOnly    bool
	Hidden      bool
	Aliases     []string
}
