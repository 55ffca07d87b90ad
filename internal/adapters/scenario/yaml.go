package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// File is the YAML scenario document
type File struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Fleet       FleetDTO  `yaml:"fleet" validate:"required"`
	Timing      TimingDTO `yaml:"timing"`
	Sites       []SiteDTO `yaml:"sites" validate:"required,min=1,dive"`
	Roads       []RoadDTO `yaml:"roads" validate:"dive"`
}

// FleetDTO sizes the fleet
type FleetDTO struct {
	Size     int `yaml:"size" validate:"required,min=1"`
	Capacity int `yaml:"capacity" validate:"required,min=1"`
}

// TimingDTO holds the service and travel times
type TimingDTO struct {
	LoadTime        float64 `yaml:"load_time" validate:"min=0"`
	UnloadTime      float64 `yaml:"unload_time" validate:"min=0"`
	TimePerDistance float64 `yaml:"time_per_distance" validate:"min=0"`
}

// SiteDTO is one depot or mine
type SiteDTO struct {
	ID       string   `yaml:"id" validate:"required"`
	Role     string   `yaml:"role" validate:"required,oneof=depot mine dump_site coal_mine"`
	Material int      `yaml:"material,omitempty" validate:"min=0"`
	LoadTime *float64 `yaml:"load_time,omitempty" validate:"omitempty,min=0"`
}

// RoadDTO is one undirected road
type RoadDTO struct {
	From     string  `yaml:"from" validate:"required"`
	To       string  `yaml:"to" validate:"required"`
	Distance float64 `yaml:"distance" validate:"min=0"`
}

// LoadYAML reads a YAML scenario file
func LoadYAML(path string, overrides Overrides) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	sc, err := ParseYAML(data, overrides)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// ParseYAML decodes and validates a YAML scenario document
func ParseYAML(data []byte, overrides Overrides) (*Scenario, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario yaml: %w", err)
	}
	return file.toScenario(overrides)
}

func (f *File) toScenario(overrides Overrides) (*Scenario, error) {
	if err := validateDTO(f); err != nil {
		return nil, err
	}

	params := dispatch.DefaultParameters()
	params.FleetSize = f.Fleet.Size
	params.Capacity = f.Fleet.Capacity
	params.LoadTime = f.Timing.LoadTime
	params.UnloadTime = f.Timing.UnloadTime
	if f.Timing.TimePerDistance > 0 {
		params.TimePerDistance = f.Timing.TimePerDistance
	}

	sites := make([]*shared.Site, 0, len(f.Sites))
	for _, dto := range f.Sites {
		role, err := shared.ParseSiteRole(dto.Role)
		if err != nil {
			return nil, err
		}
		site := &shared.Site{ID: shared.SiteID(dto.ID), Role: role, Material: dto.Material}
		if site.IsDepot() && dto.Material != 0 {
			return nil, shared.NewValidationError("sites", fmt.Sprintf("depot %s cannot hold material", dto.ID))
		}
		if dto.LoadTime != nil {
			if !site.IsMine() {
				return nil, shared.NewValidationError("sites", fmt.Sprintf("load_time on depot %s", dto.ID))
			}
			if params.LoadTimes == nil {
				params.LoadTimes = make(map[shared.SiteID]float64)
			}
			params.LoadTimes[site.ID] = *dto.LoadTime
		}
		sites = append(sites, site)
	}

	edges := make([]network.Edge, 0, len(f.Roads))
	for _, road := range f.Roads {
		edges = append(edges, network.Edge{
			From:     shared.SiteID(road.From),
			To:       shared.SiteID(road.To),
			Distance: road.Distance,
		})
	}

	net, err := network.NewNetwork(sites, edges)
	if err != nil {
		return nil, err
	}

	overrides.apply(&params)
	return &Scenario{
		Name:        f.Name,
		Description: f.Description,
		Network:     net,
		Params:      params,
	}, nil
}

// Marshal renders a scenario back to YAML
func Marshal(sc *Scenario) ([]byte, error) {
	file := File{
		Name:        sc.Name,
		Description: sc.Description,
		Fleet:       FleetDTO{Size: sc.Params.FleetSize, Capacity: sc.Params.Capacity},
		Timing: TimingDTO{
			LoadTime:        sc.Params.LoadTime,
			UnloadTime:      sc.Params.UnloadTime,
			TimePerDistance: sc.Params.TimePerDistance,
		},
	}
	for _, id := range sc.Network.Sites() {
		site, err := sc.Network.GetSite(id)
		if err != nil {
			return nil, err
		}
		dto := SiteDTO{ID: string(site.ID), Role: string(site.Role), Material: site.Material}
		if lt, ok := sc.Params.LoadTimes[site.ID]; ok {
			dto.LoadTime = &lt
		}
		file.Sites = append(file.Sites, dto)
	}
	for _, edge := range sc.Network.Edges() {
		file.Roads = append(file.Roads, RoadDTO{From: string(edge.From), To: string(edge.To), Distance: edge.Distance})
	}
	return yaml.Marshal(&file)
}
