package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Network errors

// UnreachableError reports that no path connects two sites.
// It is fatal to the current solve and is never treated as an infinite cost.
type UnreachableError struct {
	*DomainError
	From SiteID
	To   SiteID
}

func NewUnreachableError(from, to SiteID) *UnreachableError {
	return &UnreachableError{
		DomainError: NewDomainError(fmt.Sprintf("no path from %s to %s", from, to)),
		From:        from,
		To:          to,
	}
}

type UnknownSiteError struct {
	*DomainError
	Site SiteID
}

func NewUnknownSiteError(site SiteID) *UnknownSiteError {
	return &UnknownSiteError{
		DomainError: NewDomainError(fmt.Sprintf("site %s not found in network", site)),
		Site:        site,
	}
}

// Solver errors

// BudgetExceededError is returned when a search runs past its node or time budget.
// No partial schedule accompanies it.
type BudgetExceededError struct {
	*DomainError
	Reason string
	Nodes  int64
}

func NewBudgetExceededError(reason string, nodes int64) *BudgetExceededError {
	return &BudgetExceededError{
		DomainError: NewDomainError(fmt.Sprintf("search budget exceeded after %d states: %s", nodes, reason)),
		Reason:      reason,
		Nodes:       nodes,
	}
}

// InfeasibleConfigError reports malformed input parameters, raised before any search begins.
type InfeasibleConfigError struct {
	*DomainError
	Field  string
	Reason string
}

func NewInfeasibleConfigError(field, reason string) *InfeasibleConfigError {
	return &InfeasibleConfigError{
		DomainError: NewDomainError(fmt.Sprintf("infeasible configuration: %s %s", field, reason)),
		Field:       field,
		Reason:      reason,
	}
}

// Playback errors

// ScheduleCorruptionError is an assertion-style failure raised when a schedule
// breaks an invariant during playback. The engine does not attempt recovery.
type ScheduleCorruptionError struct {
	*DomainError
	Vehicle int
	Tick    int
	Reason  string
}

func NewScheduleCorruptionError(vehicle, tick int, reason string) *ScheduleCorruptionError {
	return &ScheduleCorruptionError{
		DomainError: NewDomainError(fmt.Sprintf("schedule corrupted at tick %d (vehicle %d): %s", tick, vehicle, reason)),
		Vehicle:     vehicle,
		Tick:        tick,
		Reason:      reason,
	}
}

// Persistence errors

type PlanNotFoundError struct {
	*DomainError
	ID string
}

func NewPlanNotFoundError(id string) *PlanNotFoundError {
	return &PlanNotFoundError{
		DomainError: NewDomainError(fmt.Sprintf("plan not found: %s", id)),
		ID:          id,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
