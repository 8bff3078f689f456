package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
)

// loadMap reads the map to show from AWBW when id is set, else from path.
func loadMap(ctx context.Context, svc *mapservice.Service, id int, from, path string) (*awmap.Map, error) {
	if id > 0 {
		return svc.FetchAWBW(ctx, id)
	}
	f, err := mapservice.ParseFormat(from)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := svc.Decode(ctx, f, data)
	if err != nil {
		return nil, err
	}
	if m.Title == "" {
		m.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}
