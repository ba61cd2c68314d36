// Package dataset ingests the Johns Hopkins COVID-19 time-series CSVs and
// normalizes them into per-area cumulative series.
//
// The upstream repository publishes four files, one per group/kind pair:
// world or usa, deaths or cases ("confirmed" upstream). Each file carries
// one row per province/state with one column per day. This package downloads
// or reads a file, collapses it to one cumulative series per area, and
// repairs non-monotone runs that the upstream data occasionally contains.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/epiforge/epicurve/pkg/series"
)

// DownloadURL is the raw-file template on the upstream GitHub repository.
// The two placeholders are kind ("confirmed"/"deaths") and group
// ("global"/"US"), in that order.
const DownloadURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/" +
	"master/csse_covid_19_data/csse_covid_19_time_series/" +
	"time_series_covid19_%s_%s.csv"

// Groups and Kinds enumerate the four upstream files.
var (
	Groups = []string{"world", "usa"}
	Kinds  = []string{"deaths", "cases"}
)

var (
	// ErrUnknownGroup is returned for groups other than "world" or "usa".
	ErrUnknownGroup = errors.New("unknown group")

	// ErrUnknownKind is returned for kinds other than "deaths" or "cases".
	ErrUnknownKind = errors.New("unknown kind")

	// ErrNoDateColumns is returned when a CSV has no recognizable date columns.
	ErrNoDateColumns = errors.New("no date columns in header")

	// ErrNoAreaColumn is returned when a CSV has no area column.
	ErrNoAreaColumn = errors.New("no area column in header")
)

// replaceArea canonicalizes upstream area names before grouping.
var replaceArea = map[string]string{
	"Korea, South":     "South Korea",
	"Taiwan*":          "Taiwan",
	"Burma":            "Myanmar",
	"Holy See":         "Vatican City",
	"Diamond Princess": "Cruise Ship",
	"Grand Princess":   "Cruise Ship",
	"MS Zaandam":       "Cruise Ship",
}

// Catalog maps area name to its cumulative series.
type Catalog map[string]series.Series

// Areas returns the catalog's area names in sorted order.
func (c Catalog) Areas() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Client downloads the upstream CSVs.
type Client struct {
	// BaseURL overrides DownloadURL's host for tests. Leave empty for the
	// upstream repository. Must contain the same two %s placeholders.
	BaseURL string

	// HTTPClient is optional; a 30s-timeout client is used when nil.
	HTTPClient *http.Client
}

// Fetch downloads and parses one group/kind file.
func (c *Client) Fetch(ctx context.Context, group, kind string) (Catalog, error) {
	u, err := fileURL(c.BaseURL, group, kind)
	if err != nil {
		return nil, err
	}

	cli := c.HTTPClient
	if cli == nil {
		cli = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", group, kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s/%s: status %d", group, kind, resp.StatusCode)
	}

	return Parse(resp.Body, group)
}

// FetchAll downloads all four files, keyed "<group>_<kind>".
func (c *Client) FetchAll(ctx context.Context) (map[string]Catalog, error) {
	out := make(map[string]Catalog, len(Groups)*len(Kinds))
	for _, group := range Groups {
		for _, kind := range Kinds {
			cat, err := c.Fetch(ctx, group, kind)
			if err != nil {
				return nil, err
			}
			out[group+"_"+kind] = cat
		}
	}
	return out, nil
}

// ReadFile parses a previously saved local copy, e.g. data/raw/world_cases.csv.
func ReadFile(dir, group, kind string) (Catalog, error) {
	f, err := os.Open(filepath.Join(dir, group+"_"+kind+".csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, group)
}

func fileURL(base, group, kind string) (string, error) {
	var g, k string
	switch group {
	case "usa":
		g = "US"
	case "world":
		g = "global"
	default:
		return "", fmt.Errorf("%q: %w", group, ErrUnknownGroup)
	}
	switch kind {
	case "cases":
		k = "confirmed"
	case "deaths":
		k = "deaths"
	default:
		return "", fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	if base == "" {
		base = DownloadURL
	}
	return fmt.Sprintf(base, k, g), nil
}

// Parse reads one upstream CSV and produces the per-area catalog:
// area columns selected, names canonicalized, provinces summed per area,
// rows transposed into date-indexed series, and bad runs repaired.
func Parse(r io.Reader, group string) (Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	areaCol := -1
	for i, col := range header {
		if col == "Country/Region" || col == "Province_State" {
			areaCol = i
			break
		}
	}
	if areaCol < 0 {
		return nil, ErrNoAreaColumn
	}

	// Date columns look like 1/22/20: exactly two slashes.
	type dateCol struct {
		idx  int
		date time.Time
	}
	var dateCols []dateCol
	for i, col := range header {
		if strings.Count(col, "/") != 2 {
			continue
		}
		d, err := time.Parse("1/2/06", col)
		if err != nil {
			continue
		}
		dateCols = append(dateCols, dateCol{idx: i, date: d.UTC()})
	}
	if len(dateCols) == 0 {
		return nil, ErrNoDateColumns
	}
	sort.Slice(dateCols, func(i, j int) bool { return dateCols[i].date.Before(dateCols[j].date) })

	sums := make(map[string][]float64)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if areaCol >= len(record) {
			continue
		}

		area := record[areaCol]
		if renamed, ok := replaceArea[area]; ok {
			area = renamed
		}
		// The world file carries a US total that duplicates the usa file.
		if group == "world" && area == "US" {
			continue
		}

		row := sums[area]
		if row == nil {
			row = make([]float64, len(dateCols))
			sums[area] = row
		}
		for j, dc := range dateCols {
			if dc.idx >= len(record) || record[dc.idx] == "" {
				continue
			}
			v, err := strconv.ParseFloat(record[dc.idx], 64)
			if err != nil {
				continue
			}
			row[j] += v
		}
	}

	dates := make([]time.Time, len(dateCols))
	for i, dc := range dateCols {
		dates[i] = dc.date
	}

	catalog := make(Catalog, len(sums))
	for area, values := range sums {
		s, err := series.New(dates, repairMonotone(values))
		if err != nil {
			return nil, fmt.Errorf("area %s: %w", area, err)
		}
		catalog[area] = s
	}
	return catalog, nil
}

// repairMonotone fixes days where a cumulative count drops below the running
// maximum: those values are discarded and linearly interpolated from their
// valid neighbors, then rounded. Trailing discarded values carry the last
// valid count forward.
func repairMonotone(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	valid := make([]bool, n)

	runMax := math.Inf(-1)
	for i, v := range values {
		if v > runMax {
			runMax = v
		}
		valid[i] = v >= runMax
		out[i] = v
	}

	lastValid := -1
	for i := 0; i < n; i++ {
		if valid[i] {
			lastValid = i
			continue
		}

		next := -1
		for j := i + 1; j < n; j++ {
			if valid[j] {
				next = j
				break
			}
		}

		switch {
		case lastValid < 0 && next < 0:
			// Nothing valid at all; leave as-is.
		case lastValid < 0:
			out[i] = values[next]
		case next < 0:
			out[i] = out[lastValid]
		default:
			span := float64(next - lastValid)
			frac := float64(i-lastValid) / span
			out[i] = math.Round(out[lastValid] + frac*(values[next]-out[lastValid]))
		}
	}
	return out
}
