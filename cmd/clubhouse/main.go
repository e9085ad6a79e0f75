// Command clubhouse joins and reads a trip's clubhouse board from the terminal.
//
//	clubhouse join   -event ID -password PW -name NAME
//	clubhouse resume -event ID
//	clubhouse board  -event ID [-limit N]
//	clubhouse post   -event ID -message TEXT
//	clubhouse leave  -event ID
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/internal/clubhouseclient"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "clubhouse:", err)
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: clubhouse <join|resume|board|post|leave> -event ID [flags]")
}

func run(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	apiURL := fs.String("api", envOr("GOLFTRIP_API_URL", "http://localhost:8080"), "API base URL")
	storePath := fs.String("store", clubhouseclient.DefaultStorePath(), "session cache file")
	eventID := fs.String("event", "", "event ID")
	password := fs.String("password", "", "clubhouse password (join)")
	name := fs.String("name", "", "display name (join)")
	message := fs.String("message", "", "message text (post)")
	limit := fs.Int("limit", 20, "messages to show (board)")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventID == "" {
		usage()
		return flag.ErrHelp
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	client := clubhouseclient.NewClient(*apiURL, clubhouseclient.NewFileStore(*storePath), log)

	switch cmd {
	case "join":
		if *password == "" || *name == "" {
			return errors.New("join needs -password and -name")
		}
		sess, err := client.Join(ctx, *eventID, *password, *name)
		if err != nil {
			return err
		}
		fmt.Printf("Joined as %s (session %s)\n", sess.DisplayName, sess.SessionID)
	case "resume":
		sess, err := client.Resume(ctx, *eventID)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome back, %s\n", sess.DisplayName)
	case "board":
		sess, err := client.Resume(ctx, *eventID)
		if err != nil {
			return err
		}
		msgs, err := client.Messages(ctx, sess, *limit)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("Jan 2 15:04"), m.DisplayName, m.Body)
		}
	case "post":
		if *message == "" {
			return errors.New("post needs -message")
		}
		sess, err := client.Resume(ctx, *eventID)
		if err != nil {
			return err
		}
		if _, err := client.Post(ctx, sess, *message); err != nil {
			return err
		}
	case "leave":
		return client.Leave(*eventID)
	default:
		usage()
		return flag.ErrHelp
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
