package commands

import (
	"strings"

	"github.com/goliatone/go-tweetembed/internal/logging"
	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

const commandModuleRoot = logging.ModuleRoot + ".commands"

// CommandLogger returns a logger named tweetembed.commands.<module> carrying
// the command component fields.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
