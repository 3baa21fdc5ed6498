package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"money-drop-service/internal/app"
	"money-drop-service/internal/config"
	"money-drop-service/internal/domain"
	"money-drop-service/internal/game"
	"money-drop-service/internal/view"
)

// NewPlayCmd runs one game in the terminal against the configured question source.
func NewPlayCmd(configPath *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

			b, err := openBackends(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()
			questions, err := questionProvider(cfg, b, logger)
			if err != nil {
				return err
			}
			service := app.NewGameService(sessionRepository(cfg, b), questions, app.Options{
				Rules:   rulesFromConfig(cfg.Game),
				Timings: timingsFromConfig(cfg.Game),
				Logger:  logger,
			})

			var renderer view.Renderer = view.NewTextRenderer(language.English)
			if asJSON {
				renderer = view.JSONRenderer{}
			}
			return playGame(cmd.Context(), service, renderer, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print boards as JSON lines")
	return cmd
}

func playGame(ctx context.Context, service *app.GameService, renderer view.Renderer, in io.Reader, out io.Writer) error {
	gameID, _, err := service.Create(ctx)
	if err != nil {
		return err
	}
	defer service.End(context.Background(), gameID)

	updates, cancel, err := service.Subscribe(ctx, gameID)
	if err != nil {
		return err
	}
	defer cancel()

	// Output is serialized through one goroutine so boards and errors never interleave.
	lines := make(chan string, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		rules := service.Rules()
		render := func(st game.State) { _ = renderer.Render(out, view.Build(st, rules)) }
		for {
			select {
			case st, ok := <-updates:
				if !ok {
					return
				}
				render(st)
			case line, ok := <-lines:
				if ok {
					fmt.Fprintln(out, line)
					continue
				}
				// Input is over: flush boards already published, then stop.
				for {
					select {
					case st, ok := <-updates:
						if !ok {
							return
						}
						render(st)
					default:
						return
					}
				}
			}
		}
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		c, err := parseCommand(scanner.Text())
		if err != nil {
			lines <- "?? " + err.Error()
			continue
		}
		if c.kind == cmdQuit {
			break
		}
		if err := c.apply(ctx, service, gameID); err != nil {
			if !errors.Is(err, domain.ErrBetExceedsBankroll) && !errors.Is(err, domain.ErrEmptySlotRequired) {
				lines <- "!! " + err.Error()
			}
		}
	}
	close(lines)
	<-done
	return scanner.Err()
}

type commandKind int

const (
	cmdNames commandKind = iota
	cmdChoose
	cmdPick
	cmdRaise
	cmdLower
	cmdDrop
	cmdContinue
	cmdRestart
	cmdRetry
	cmdQuit
)

type command struct {
	kind  commandKind
	args  []string
	index int
	label domain.Label
}

var errUnknownCommand = errors.New("commands: names <p1> <p2> | <n> | choose <topic> | + <A-D> | - <A-D> | drop | continue | restart | retry | quit")

// parseCommand reads one line of terminal input.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errUnknownCommand
	}
	verb := strings.ToLower(fields[0])
	rest := fields[1:]

	if n, err := strconv.Atoi(verb); err == nil && len(rest) == 0 {
		return command{kind: cmdPick, index: n - 1}, nil
	}

	switch verb {
	case "names":
		if len(rest) != 2 {
			return command{}, domain.ErrPlayerNameRequired
		}
		return command{kind: cmdNames, args: rest}, nil
	case "choose":
		if len(rest) == 0 {
			return command{}, domain.ErrUnknownCategory
		}
		return command{kind: cmdChoose, args: []string{strings.Join(rest, " ")}}, nil
	case "+", "raise", "-", "lower":
		if len(rest) != 1 {
			return command{}, domain.ErrLabelNotVisible
		}
		label, ok := domain.ParseLabel(rest[0])
		if !ok {
			return command{}, domain.ErrLabelNotVisible
		}
		kind := cmdRaise
		if verb == "-" || verb == "lower" {
			kind = cmdLower
		}
		return command{kind: kind, label: label}, nil
	case "drop":
		return command{kind: cmdDrop}, nil
	case "continue", "next":
		return command{kind: cmdContinue}, nil
	case "restart":
		return command{kind: cmdRestart}, nil
	case "retry":
		return command{kind: cmdRetry}, nil
	case "quit", "exit":
		return command{kind: cmdQuit}, nil
	}
	return command{}, errUnknownCommand
}

func (c command) apply(ctx context.Context, service *app.GameService, gameID string) error {
	var err error
	switch c.kind {
	case cmdNames:
		_, err = service.SubmitNames(ctx, gameID, c.args[0], c.args[1])
	case cmdChoose:
		_, err = service.ChooseCategory(ctx, gameID, c.args[0])
	case cmdPick:
		var st game.State
		st, err = service.State(ctx, gameID)
		if err != nil {
			return err
		}
		if c.index < 0 || c.index >= len(st.Categories) {
			return domain.ErrUnknownCategory
		}
		_, err = service.ChooseCategory(ctx, gameID, st.Categories[c.index])
	case cmdRaise:
		_, err = service.RaiseBet(ctx, gameID, c.label)
	case cmdLower:
		_, err = service.LowerBet(ctx, gameID, c.label)
	case cmdDrop:
		_, err = service.Drop(ctx, gameID)
	case cmdContinue:
		_, err = service.Continue(ctx, gameID)
	case cmdRestart:
		_, err = service.Restart(ctx, gameID)
	case cmdRetry:
		_, err = service.RetryContent(ctx, gameID)
	}
	return err
}
