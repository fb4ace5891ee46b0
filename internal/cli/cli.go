// Package cli implements the kitchen command line: asking a running server
// for a recipe, or sending a prompt straight to the gateway.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/socialchef/hogwarts-kitchen/internal/config"
	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
	"github.com/socialchef/hogwarts-kitchen/internal/kitchen"
	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
	"github.com/socialchef/hogwarts-kitchen/internal/validation"
)

const name = "kitchen"

// overridden during build with ldflags
var version = "dev"

// NewCommand returns the root command. Results go to out, progress to errOut.
func NewCommand(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      name,
		Version:   version,
		Usage:     "The Hogwarts Kitchen - recipes from whatever is in your pantry",
		Writer:    out,
		ErrWriter: errOut,
		Commands: []*cli.Command{
			recipeCmd(out, errOut),
			askCmd(out),
		},
	}
}

// Execute runs the root command against os.Args.
func Execute(ctx context.Context) error {
	return NewCommand(os.Stdout, os.Stderr).Run(ctx, os.Args)
}

func recipeCmd(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "recipe",
		Usage:     "Ask a running kitchen server for a recipe",
		ArgsUsage: "<ingredients...>",
		Description: `Submits the ingredients to the server's recipe endpoint and renders the
answer. The model may decline when nothing usable is listed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:3000",
				Usage:   "Base URL of the kitchen server",
				Sources: cli.EnvVars("KITCHEN_SERVER"),
			},
			&cli.StringFlag{
				Name:  "route",
				Value: "axios",
				Usage: "Recipe endpoint to call (supported values: axios, portkey)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: config.DefaultGatewayTimeout,
				Usage: "Request timeout",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Reject recipes with missing fields",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			route := cmd.String("route")
			if route != "axios" && route != "portkey" {
				return fmt.Errorf("unknown route: %q", route)
			}

			controller := kitchen.NewController(kitchen.NewClient(cmd.String("server"), route, cmd.Duration("timeout")))
			if cmd.Bool("strict") {
				cfg := validation.DefaultRecipeValidationConfig()
				controller.Validation = &cfg
			}

			fmt.Fprintln(errOut, kitchen.Placeholder)
			result, err := controller.Submit(ctx, strings.Join(cmd.Args().Slice(), " "))
			if err != nil {
				printSuggestion(errOut, err)
				return err
			}
			return kitchen.Render(out, result)
		},
	}
}

func askCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Send a prompt straight to the gateway",
		ArgsUsage: "<prompt...>",
		Description: `Uses OPENAI_API_KEY and PORTKEYAI_API_KEY (and config.yaml, if present)
to make a single completion through the gateway and prints the answer.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Value: string(portkey.KindProxy),
				Usage: fmt.Sprintf("Gateway surface (supported values: %s, %s)", portkey.KindProxy, portkey.KindChatComplete),
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Model override (defaults to the configured model)",
			},
			&cli.StringFlag{
				Name:  "system",
				Usage: "Optional system message",
			},
			&cli.StringFlag{
				Name:    "gateway-url",
				Usage:   "Gateway base URL override",
				Sources: cli.EnvVars("PORTKEY_BASE_URL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			prompt := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
			if prompt == "" {
				return fmt.Errorf("a prompt is required")
			}

			kind := portkey.Kind(cmd.String("mode"))
			if kind != portkey.KindProxy && kind != portkey.KindChatComplete {
				return fmt.Errorf("unknown mode: %q", kind)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if u := cmd.String("gateway-url"); u != "" {
				cfg.Gateway.BaseURL = u
			}

			var messages []portkey.Message
			if system := cmd.String("system"); system != "" {
				messages = append(messages, portkey.SystemMessage(system))
			}
			messages = append(messages, portkey.UserMessage(prompt))

			ctx, cancel := context.WithTimeout(ctx, cfg.Gateway.Timeout+5*time.Second)
			defer cancel()

			resp, err := portkey.NewCompleter(cfg.Gateway, kind, cfg.OpenAIKey, cfg.PortkeyKey).Complete(ctx, portkey.Request{
				Messages: messages,
				Model:    cmd.String("model"),
				TraceID:  uuid.New().String(),
			})
			if err != nil {
				return err
			}
			choice, err := resp.FirstChoice()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(out, choice.Message.Content)
			return err
		},
	}
}

// printSuggestion writes the recovery hint carried by an AppError, if any.
func printSuggestion(w io.Writer, err error) {
	if appErr, ok := apperrors.As(err); ok && appErr.RecoverySuggestion() != "" {
		fmt.Fprintln(w, "Hint:", appErr.RecoverySuggestion())
	}
}
