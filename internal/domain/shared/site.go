package shared

import (
	"fmt"
	"strings"
)

// SiteID identifies a depot or mine in the road network
type SiteID string

// SiteRole tags a site as the depot or as a mine
type SiteRole string

const (
	RoleDepot SiteRole = "depot"
	RoleMine  SiteRole = "mine"
)

// ParseSiteRole accepts the role names used by the map tooling ("dump_site" and
// "coal_mine" included) and normalizes them
func ParseSiteRole(value string) (SiteRole, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "depot", "dump", "dump_site":
		return RoleDepot, nil
	case "mine", "coal_mine":
		return RoleMine, nil
	default:
		return "", NewValidationError("role", fmt.Sprintf("unknown site role %q", value))
	}
}

// Site represents an immutable location in the road network.
// Material is the initial amount held by a mine; it is always zero for the depot.
type Site struct {
	ID       SiteID   `json:"id"`
	Role     SiteRole `json:"role"`
	Material int      `json:"material,omitempty"`
}

// NewDepot creates the depot site
func NewDepot(id SiteID) (*Site, error) {
	if id == "" {
		return nil, NewValidationError("id", "cannot be empty")
	}
	return &Site{ID: id, Role: RoleDepot}, nil
}

// NewMine creates a mine holding the given amount of material
func NewMine(id SiteID, material int) (*Site, error) {
	if id == "" {
		return nil, NewValidationError("id", "cannot be empty")
	}
	if material < 0 {
		return nil, NewInfeasibleConfigError(fmt.Sprintf("mine %s material", id), "cannot be negative")
	}
	return &Site{ID: id, Role: RoleMine, Material: material}, nil
}

func (s *Site) IsDepot() bool { return s.Role == RoleDepot }
func (s *Site) IsMine() bool  { return s.Role == RoleMine }

func (s *Site) String() string {
	return fmt.Sprintf("Site(%s, %s)", s.ID, s.Role)
}
