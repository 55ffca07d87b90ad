package scenario

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

const (
	// DefaultDepotID is the depot name used by the surveyed pit exports
	DefaultDepotID = "Dump_site"

	edgesFile = "edges.csv"
	nodesFile = "nodes.csv"
)

// EdgeRow is one row of edges.csv
type EdgeRow struct {
	Source      string  `validate:"required"`
	Destination string  `validate:"required"`
	Distance    float64 `validate:"min=0"`
}

// NodeRow is one row of nodes.csv
type NodeRow struct {
	Source         string `validate:"required"`
	SourceCapacity int    `validate:"min=0"`
}

// CSVOptions describe what the csv pair leaves implicit
type CSVOptions struct {
	// DepotID names the depot node (default Dump_site)
	DepotID string
	// Params carry fleet and timing; the zero value means DefaultParameters
	Params dispatch.Parameters
}

// LoadCSVDir reads edges.csv and nodes.csv from a directory. Fleet and timing
// come from the overrides on top of DefaultParameters.
func LoadCSVDir(dir string, overrides Overrides) (*Scenario, error) {
	params := dispatch.DefaultParameters()
	overrides.apply(&params)

	sc, err := LoadCSV(filepath.Join(dir, edgesFile), filepath.Join(dir, nodesFile), CSVOptions{Params: params})
	if err != nil {
		return nil, err
	}
	sc.Name = filepath.Base(filepath.Clean(dir))
	return sc, nil
}

// LoadCSV reads an edges file and a nodes file.
// Nodes that only appear in edges.csv become empty mines, so they route traffic
// but are never visited.
func LoadCSV(edgesPath, nodesPath string, opts CSVOptions) (*Scenario, error) {
	edgesIn, err := os.Open(edgesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open edges: %w", err)
	}
	defer edgesIn.Close()

	nodesIn, err := os.Open(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open nodes: %w", err)
	}
	defer nodesIn.Close()

	return ParseCSV(edgesIn, nodesIn, opts)
}

// ParseCSV builds a scenario from edges (source,destination,distance) and
// nodes (source,source_capacity) tables
func ParseCSV(edgesIn, nodesIn io.Reader, opts CSVOptions) (*Scenario, error) {
	depot := opts.DepotID
	if depot == "" {
		depot = DefaultDepotID
	}

	edgeRows, err := readEdgeRows(edgesIn)
	if err != nil {
		return nil, err
	}
	nodeRows, err := readNodeRows(nodesIn)
	if err != nil {
		return nil, err
	}

	var (
		sites []*shared.Site
		seen  = make(map[string]bool)
	)
	addSite := func(id string, material int) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		var (
			site *shared.Site
			err  error
		)
		if id == depot {
			site, err = shared.NewDepot(shared.SiteID(id))
		} else {
			site, err = shared.NewMine(shared.SiteID(id), material)
		}
		if err != nil {
			return err
		}
		sites = append(sites, site)
		return nil
	}

	for _, row := range nodeRows {
		if seen[row.Source] {
			return nil, shared.NewValidationError(nodesFile, fmt.Sprintf("node %s listed twice", row.Source))
		}
		if row.Source == depot {
			// the depot's own capacity column counts delivered material, not stock
			if err := addSite(row.Source, 0); err != nil {
				return nil, err
			}
			continue
		}
		if err := addSite(row.Source, row.SourceCapacity); err != nil {
			return nil, err
		}
	}

	edges := make([]network.Edge, 0, len(edgeRows))
	for _, row := range edgeRows {
		for _, id := range []string{row.Source, row.Destination} {
			if err := addSite(id, 0); err != nil {
				return nil, err
			}
		}
		edges = append(edges, network.Edge{
			From:     shared.SiteID(row.Source),
			To:       shared.SiteID(row.Destination),
			Distance: row.Distance,
		})
	}

	if !seen[depot] {
		return nil, shared.NewValidationError("depot", fmt.Sprintf("depot %s does not appear in the csv files", depot))
	}

	net, err := network.NewNetwork(sites, edges)
	if err != nil {
		return nil, err
	}

	params := opts.Params
	if params.FleetSize == 0 && params.TimePerDistance == 0 {
		params = dispatch.DefaultParameters()
	}
	return &Scenario{Network: net, Params: params}, nil
}

func readEdgeRows(in io.Reader) ([]EdgeRow, error) {
	records, header, err := readTable(in, edgesFile, "source", "destination", "distance")
	if err != nil {
		return nil, err
	}

	rows := make([]EdgeRow, 0, len(records))
	for i, record := range records {
		distance, err := strconv.ParseFloat(strings.TrimSpace(record[header["distance"]]), 64)
		if err != nil {
			return nil, shared.NewValidationError(fmt.Sprintf("%s line %d", edgesFile, i+2), "distance is not a number")
		}
		row := EdgeRow{
			Source:      strings.TrimSpace(record[header["source"]]),
			Destination: strings.TrimSpace(record[header["destination"]]),
			Distance:    distance,
		}
		if err := validateDTO(row); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", edgesFile, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readNodeRows(in io.Reader) ([]NodeRow, error) {
	records, header, err := readTable(in, nodesFile, "source", "source_capacity")
	if err != nil {
		return nil, err
	}

	rows := make([]NodeRow, 0, len(records))
	for i, record := range records {
		capacity, err := strconv.Atoi(strings.TrimSpace(record[header["source_capacity"]]))
		if err != nil {
			return nil, shared.NewValidationError(fmt.Sprintf("%s line %d", nodesFile, i+2), "source_capacity is not an integer")
		}
		row := NodeRow{
			Source:         strings.TrimSpace(record[header["source"]]),
			SourceCapacity: capacity,
		}
		if err := validateDTO(row); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", nodesFile, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readTable reads a headed csv table and maps the required columns to indexes
func readTable(in io.Reader, name string, columns ...string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true

	headerRow, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, shared.NewValidationError(name, "file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s header: %w", name, err)
	}

	header := make(map[string]int, len(headerRow))
	for i, col := range headerRow {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range columns {
		if _, ok := header[col]; !ok {
			return nil, nil, shared.NewValidationError(name, fmt.Sprintf("missing column %q", col))
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return records, header, nil
}
