// Command awmap converts, renders, fetches, inspects and generates Advance
// Wars maps from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/SirThane/BattleMaps-sub000/internal/config"
)

const usage = `usage: awmap <command> [flags]

commands:
  convert   convert a map between AWS and AWBW CSV
  render    render a map's minimap to PNG or GIF
  fetch     download an AWBW map by id
  info      print a map summary as YAML or JSON
  generate  generate a random map

Run "awmap <command> -h" for the flags of a command.
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	config.SetupLoggingTo(os.Stderr, os.Getenv("BMAP_LOG_LEVEL"), "console")
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Error().Err(err).Msg("awmap failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("no command given")
	}
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	switch args[0] {
	case "convert":
		return c.convert(ctx, args[1:])
	case "render":
		return c.render(ctx, args[1:])
	case "fetch":
		return c.fetch(ctx, args[1:])
	case "info":
		return c.info(ctx, args[1:])
	case "generate":
		return c.generate(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	fmt.Fprint(stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}
