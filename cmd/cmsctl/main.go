// Command cmsctl edits Yaro Wora CMS content from the terminal through the
// same services, cache and dialog controller the admin UI uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/config"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/container"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/logger"
)

const usage = `usage: cmsctl <command> [args]

commands:
  resources                      list editable resources
  login                          obtain a token (prints an API_TOKEN export)
  list <path> [flags]            show one page of a resource
  show <path> <id>               show one record
  create <path>                  create a record interactively
  edit <path> <id>               edit a record interactively
  edit content/<page>            edit a page content singleton
  delete <path> <id>             delete a record
  upload <file> [folder]         upload a file and print its URLs
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	// keep the terminal for prompts, logs only above warn unless asked
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.App.LogLevel = "warn"
	}
	logger.Init("development", cfg.App.LogLevel)

	c, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize container")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{c: c, prompt: surveyPrompter{}, out: os.Stdout}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		if errors.Is(err, errInterrupted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
