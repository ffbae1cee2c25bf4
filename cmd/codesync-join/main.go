package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/codesync-sdk/codesync-sdk-go/codesync"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("codesync-join failed")
	}
}

// terminalNavigator prints the editor route and signals the join.
type terminalNavigator struct {
	joined chan struct{}
}

func (n *terminalNavigator) NavigateToRoom(roomID string, state codesync.NavState) {
	fmt.Printf("Joined as %s. Editor: %s\n", state.Username, codesync.EditorPath(roomID))
	select {
	case n.joined <- struct{}{}:
	default:
	}
}

func run() error {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	url := pflag.String("url", "", "collaboration server websocket URL (overrides config)")
	username := pflag.StringP("username", "u", "", "username to join with")
	room := pflag.StringP("room", "r", "", "room id to join")
	invite := pflag.String("invite", "", "room id handed over by an invite link")
	newRoom := pflag.Bool("new-room", false, "generate a fresh room id")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := codesync.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *url != "" {
		cfg.URL = *url
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := codesync.NewZerologLogger(log.Logger)
	session := codesync.NewSession(codesync.LogNotifier{Logger: logger})
	session.Update(codesync.FieldUsername, *username)
	session.Update(codesync.FieldRoomID, *room)
	session.Prefill(*invite)
	if *newRoom {
		session.GenerateRoomID()
	}

	channel := codesync.NewWSChannel(*cfg)
	channel.SetLogger(logger)
	defer channel.Disconnect()

	nav := &terminalNavigator{joined: make(chan struct{}, 1)}
	ctrl := codesync.NewController(session, channel, nav)
	ctrl.SetLogger(logger)

	failed := make(chan error, 1)
	ctrl.OnStatusChanged(func(ev codesync.StatusEvent) {
		log.Debug().Str("from", ev.OldStatus.String()).Str("to", ev.NewStatus.String()).Msg("status")
		if ev.NewStatus == codesync.StatusConnectionError {
			select {
			case failed <- ev.Error:
			default:
			}
		}
	})

	ctrl.OnError(func(err error) {
		if !codesync.IsRejection(err) {
			return
		}
		select {
		case failed <- err:
		default:
		}
	})

	fmt.Printf("Connecting to %s...\n", cfg.URL)
	ctrl.Start()

	input := bufio.NewScanner(os.Stdin)
	for {
		err := ctrl.RequestJoin(ctx)
		if err == nil {
			break
		}
		if !codesync.IsValidationError(err) {
			return fmt.Errorf("join: %w", err)
		}
		if !prompt(input, session, err) {
			return fmt.Errorf("join: %w", err)
		}
	}

	select {
	case <-nav.joined:
	case err := <-failed:
		return fmt.Errorf("join: %w", err)
	case <-ctx.Done():
		fmt.Println("\nShutting down...")
		return nil
	}

	fmt.Printf("Members: %s\n", memberNames(ctrl.Session().Members()))
	fmt.Println("Press Ctrl+C to leave the room.")
	<-ctx.Done()
	fmt.Println("\nShutting down...")
	return nil
}

// prompt asks for the field that failed validation. It returns false when
// stdin is exhausted.
func prompt(input *bufio.Scanner, session *codesync.Session, cause error) bool {
	field, label := codesync.FieldUsername, "Username"
	if errors.Is(cause, codesync.ErrRoomIDRequired) || errors.Is(cause, codesync.ErrRoomIDTooShort) {
		field, label = codesync.FieldRoomID, "Room ID"
	}
	fmt.Printf("%s: ", label)
	if !input.Scan() {
		return false
	}
	session.Update(field, strings.TrimSpace(input.Text()))
	return true
}

func memberNames(users []codesync.User) string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return strings.Join(names, ", ")
}
