package awbw

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/elements"
)

//go:embed map_info.schema.json
var mapInfoSchemaJSON string

var mapInfoSchema = jsonschema.MustCompileString("map_info.schema.json", mapInfoSchemaJSON)

// NotFoundError is an AWBW lookup that failed. It matches awmap.ErrMapNotFound.
type NotFoundError struct {
	ID int
	// Message is the API's own explanation when it gave one.
	Message string
	Err     error
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	b.WriteString("awbw map")
	if e.ID > 0 {
		fmt.Fprintf(&b, " %d", e.ID)
	}
	b.WriteString(" not found")
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *NotFoundError) Is(target error) bool { return target == awmap.ErrMapNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// number accepts a JSON number, a numeric string, or "" (read as 0).
type number int

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%q is not an integer", s)
		}
		*n = number(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number(v)
	return nil
}

// APIUnit is one entry of "Predeployed Units".
type APIUnit struct {
	UnitID      number `json:"Unit ID"`
	X           number `json:"Unit X"`
	Y           number `json:"Unit Y"`
	HP          number `json:"Unit HP"`
	CountryCode string `json:"Country Code"`
}

// APIMap is the successful map_info response.
type APIMap struct {
	Name          string     `json:"Name"`
	Author        string     `json:"Author"`
	PlayerCount   number     `json:"Player Count"`
	PublishedDate string     `json:"Published Date"`
	SizeX         number     `json:"Size X"`
	SizeY         number     `json:"Size Y"`
	TerrainMap    [][]number `json:"Terrain Map"`
	Units         []APIUnit  `json:"Predeployed Units"`
}

// APIError returns the API's error message when body is an error response.
func APIError(body []byte) (string, bool) {
	var probe struct {
		Err     any    `json:"err"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", false
	}
	if !truthy(probe.Err) {
		return "", false
	}
	if probe.Message == "" {
		return "map not found", true
	}
	return probe.Message, true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0" && !strings.EqualFold(t, "false")
	}
	return true
}

var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePublished(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DecodeJSON parses a map_info response. An error response yields a
// *NotFoundError; a response that does not match the expected shape yields
// ErrBadFormat; a terrain map that disagrees with Size X/Y yields
// ErrDimensionMismatch.
func DecodeJSON(body []byte) (*awmap.Map, error) {
	if msg, isErr := APIError(body); isErr {
		return nil, &NotFoundError{Message: msg}
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", awmap.ErrBadFormat, err)
	}
	if err := mapInfoSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", awmap.ErrBadFormat, err)
	}

	var api APIMap
	if err := json.Unmarshal(body, &api); err != nil {
		return nil, fmt.Errorf("%w: %v", awmap.ErrBadFormat, err)
	}
	return api.ToMap()
}

// ToMap transposes the column-major terrain map and places predeployed units.
func (a *APIMap) ToMap() (*awmap.Map, error) {
	w, h := int(a.SizeX), int(a.SizeY)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: map must be at least 1x1, got %dx%d", awmap.ErrDimensionMismatch, w, h)
	}
	if len(a.TerrainMap) != w {
		return nil, fmt.Errorf("%w: terrain map has %d columns, Size X is %d",
			awmap.ErrDimensionMismatch, len(a.TerrainMap), w)
	}
	// Column lengths are checked before the grid is allocated so a bogus
	// Size Y cannot drive the allocation.
	for x, col := range a.TerrainMap {
		if len(col) != h {
			return nil, fmt.Errorf("%w: terrain column %d has %d rows, Size Y is %d",
				awmap.ErrDimensionMismatch, x, len(col), h)
		}
	}
	rows := make([][]int, h)
	for y := range rows {
		rows[y] = make([]int, w)
	}
	for x, col := range a.TerrainMap {
		for y, code := range col {
			rows[y][x] = int(code)
		}
	}

	m, err := fromRows(rows)
	if err != nil {
		return nil, err
	}
	m.Title = a.Name
	m.Author = a.Author
	m.PlayerCount = int(a.PlayerCount)
	m.Published = parsePublished(a.PublishedDate)

	for _, u := range a.Units {
		unit := elements.AWBWUnit(int(u.UnitID))
		if unit == elements.NoUnit {
			continue
		}
		country, ok := elements.CountryByAWBWCode(u.CountryCode)
		if !ok {
			return nil, &awmap.MapError{Op: "place unit", X: int(u.X), Y: int(u.Y),
				Detail: fmt.Sprintf("unknown country code %q", u.CountryCode), Err: awmap.ErrInvalidUnit}
		}
		if err := m.SetUnit(int(u.X), int(u.Y), unit, country); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// IsNotFound reports whether err is an AWBW lookup failure.
func IsNotFound(err error) bool { return errors.Is(err, awmap.ErrMapNotFound) }
