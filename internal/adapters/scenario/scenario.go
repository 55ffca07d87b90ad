package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/minehaul-go/internal/domain/dispatch"
	"github.com/andrescamacho/minehaul-go/internal/domain/network"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
)

// Scenario is a loaded dispatch problem with its display name
type Scenario struct {
	Name        string
	Description string
	Network     *network.Network
	Params      dispatch.Parameters
}

// Problem builds the dispatch problem of the scenario
func (s *Scenario) Problem() (*dispatch.Problem, error) {
	return dispatch.NewProblem(s.Network, s.Params)
}

// Load reads a scenario file, choosing the format by extension.
// A directory is read as an edges.csv/nodes.csv pair.
func Load(path string, overrides Overrides) (*Scenario, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path, overrides)
	case "":
		return LoadCSVDir(path, overrides)
	default:
		return nil, fmt.Errorf("unsupported scenario format %q (want .yaml, .yml or a csv directory)", filepath.Ext(path))
	}
}

// Overrides replace scenario parameters from the command line; zero fields keep the file value
type Overrides struct {
	FleetSize       int
	Capacity        int
	LoadTime        float64
	UnloadTime      float64
	TimePerDistance float64
}

func (o Overrides) apply(params *dispatch.Parameters) {
	if o.FleetSize > 0 {
		params.FleetSize = o.FleetSize
	}
	if o.Capacity > 0 {
		params.Capacity = o.Capacity
	}
	if o.LoadTime > 0 {
		params.LoadTime = o.LoadTime
	}
	if o.UnloadTime > 0 {
		params.UnloadTime = o.UnloadTime
	}
	if o.TimePerDistance > 0 {
		params.TimePerDistance = o.TimePerDistance
	}
}

var validate = validator.New()

// validateDTO runs the struct tags and reports the first failures as a ValidationError
func validateDTO(dto interface{}) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	field := validationErrs[0].Namespace()
	var messages []string
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
	}
	return shared.NewValidationError(field, strings.Join(messages, "; "))
}
