package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SirThane/BattleMaps-sub000/internal/awbwapi"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
	"github.com/SirThane/BattleMaps-sub000/internal/mapgen"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
)

// stdio is the file name that means stdin or stdout.
const stdio = "-"

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	// fetcher overrides the AWBW client; tests set it.
	fetcher awbw.Fetcher
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func (c *cli) service(endpoint string, timeout time.Duration) *mapservice.Service {
	f := c.fetcher
	if f == nil {
		f = awbwapi.NewClient(awbwapi.Options{Endpoint: endpoint, Timeout: timeout})
	}
	return mapservice.New(f, nil, nil)
}

func (c *cli) read(path string) ([]byte, error) {
	if path == stdio || path == "" {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(path)
}

func (c *cli) write(path string, data []byte) error {
	if path == stdio || path == "" {
		_, err := c.stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// load reads a map from a file or, with id > 0, from AWBW.
func (c *cli) load(ctx context.Context, svc *mapservice.Service, in, from string, id int) (*awmap.Map, error) {
	if id > 0 {
		return svc.FetchAWBW(ctx, id)
	}
	f, err := mapservice.ParseFormat(from)
	if err != nil {
		return nil, err
	}
	data, err := c.read(in)
	if err != nil {
		return nil, err
	}
	m, err := svc.Decode(ctx, f, data)
	if err != nil {
		return nil, err
	}
	if m.Title == "" && in != stdio && in != "" {
		m.Title = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	}
	return m, nil
}

// outputFormat picks the target format from the flag or the output extension.
func outputFormat(to, out string) (mapservice.Format, error) {
	if to != "" {
		return mapservice.ParseFormat(to)
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".aws":
		return mapservice.FormatAWS, nil
	default:
		return mapservice.FormatAWBW, nil
	}
}

func (c *cli) convert(ctx context.Context, args []string) error {
	fs := c.flags("convert")
	in := fs.String("in", stdio, "input map file, - for stdin")
	out := fs.String("out", stdio, "output file, - for stdout")
	from := fs.String("from", "", "input format: aws, awbw, awbw_json (default: detect)")
	to := fs.String("to", "", "output format: aws or awbw (default: from -out extension, else awbw)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target, err := outputFormat(*to, *out)
	if err != nil {
		return err
	}
	svc := c.service("", 0)
	m, err := c.load(ctx, svc, *in, *from, 0)
	if err != nil {
		return err
	}
	data, err := svc.Encode(ctx, m, target)
	if err != nil {
		return err
	}
	return c.write(*out, data)
}

func (c *cli) render(ctx context.Context, args []string) error {
	fs := c.flags("render")
	in := fs.String("in", stdio, "input map file, - for stdin")
	from := fs.String("from", "", "input format (default: detect)")
	id := fs.Int("id", 0, "render AWBW map id instead of a file")
	out := fs.String("out", "", "output image (default: <title>.png or .gif)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := c.service("", 0)
	m, err := c.load(ctx, svc, *in, *from, *id)
	if err != nil {
		return err
	}
	img, err := svc.Render(ctx, m)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		base := m.Title
		if base == "" {
			base = "minimap"
		}
		path = img.Filename(base)
	}
	if err := c.write(path, img.Data); err != nil {
		return err
	}
	if path != stdio {
		fmt.Fprintf(c.stderr, "wrote %s (%s, %d frames, scale %d)\n", path, img.Format, img.Frames, img.Scale)
	}
	return nil
}

func (c *cli) fetch(ctx context.Context, args []string) error {
	fs := c.flags("fetch")
	id := fs.Int("id", 0, "AWBW map id")
	out := fs.String("out", stdio, "output file, - for stdout")
	to := fs.String("to", "", "output format: aws or awbw (default: from -out extension, else awbw)")
	endpoint := fs.String("endpoint", awbwapi.DefaultEndpoint, "AWBW map API endpoint")
	timeout := fs.Duration("timeout", awbwapi.DefaultTimeout, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("fetch: -id is required")
	}

	target, err := outputFormat(*to, *out)
	if err != nil {
		return err
	}
	svc := c.service(*endpoint, *timeout)
	m, err := svc.FetchAWBW(ctx, *id)
	if err != nil {
		return err
	}
	data, err := svc.Encode(ctx, m, target)
	if err != nil {
		return err
	}
	return c.write(*out, data)
}

func (c *cli) info(ctx context.Context, args []string) error {
	fs := c.flags("info")
	in := fs.String("in", stdio, "input map file, - for stdin")
	from := fs.String("from", "", "input format (default: detect)")
	id := fs.Int("id", 0, "describe AWBW map id instead of a file")
	format := fs.String("format", "yaml", "output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := c.service("", 0)
	m, err := c.load(ctx, svc, *in, *from, *id)
	if err != nil {
		return err
	}
	s := m.Summary()
	switch *format {
	case "yaml":
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return fmt.Errorf("unknown info format %q", *format)
}

func (c *cli) generate(ctx context.Context, args []string) error {
	fs := c.flags("generate")
	width := fs.Int("width", 20, "map width")
	height := fs.Int("height", 15, "map height")
	players := fs.Int("players", 2, "number of players")
	seed := fs.Int64("seed", 0, "random seed (0 uses the clock)")
	title := fs.String("title", "", "map title (default: Generated <seed>)")
	out := fs.String("out", stdio, "output file, - for stdout")
	to := fs.String("to", "", "output format: aws or awbw (default: from -out extension, else awbw)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target, err := outputFormat(*to, *out)
	if err != nil {
		return err
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	m, err := mapgen.NewGenerator(mapgen.DefaultMapConfig(*width, *height, *players), rand.New(rand.NewSource(*seed))).GenerateMap()
	if err != nil {
		return err
	}
	m.Title = *title
	if m.Title == "" {
		m.Title = fmt.Sprintf("Generated %d", *seed)
	}
	m.Author = "awmap"

	data, err := c.service("", 0).Encode(ctx, m, target)
	if err != nil {
		return err
	}
	return c.write(*out, data)
}
