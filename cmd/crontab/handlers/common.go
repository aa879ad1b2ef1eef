package handlers

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/crontab-plugin/internal/config"
	"github.com/imamik/crontab-plugin/internal/i18n"
)

// Replaceable in tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin

	isInteractive = isInteractiveTTY
)

func isInteractiveTTY() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// loadConfig reads the config file when given, else the environment.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newTranslator picks the flag language, then the configured one, then the
// environment's.
func newTranslator(flagLang string, cfg *config.Config) (*i18n.Translator, error) {
	lang := flagLang
	if lang == "" {
		lang = cfg.Language
	}
	if lang == "" {
		lang = i18n.LanguageFromEnv()
	}
	return i18n.New(lang)
}
