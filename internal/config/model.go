package config

import "fmt"

// RelationKind selects one of the four binding relation sets of a
// configuration.
type RelationKind int

const (
	// SSCToEval marks a primary-module variable as satisfied by an
	// evaluated input rather than a raw UI value.
	SSCToEval RelationKind = iota
	// EqnOutputsToPrimary routes an equation output variable into a
	// primary-module input variable.
	EqnOutputsToPrimary
	// UIToSecondary routes a UI variable into a secondary-module input
	// variable.
	UIToSecondary
	// SecondaryOutputsToUI routes a secondary-module output variable back
	// into a UI variable.
	SecondaryOutputsToUI
)

// relationKindNames is indexed by RelationKind; the order also fixes the
// exporter's rendering order.
var relationKindNames = [...]string{
	"ssc_to_eval",
	"eqn_outputs_to_primary",
	"ui_to_secondary",
	"secondary_outputs_to_ui",
}

// String returns the declarative-data name of the kind.
func (k RelationKind) String() string {
	if k < 0 || int(k) >= len(relationKindNames) {
		return fmt.Sprintf("relation(%d)", int(k))
	}
	return relationKindNames[k]
}

// RelationKinds lists all kinds in their canonical order.
func RelationKinds() []RelationKind {
	return []RelationKind{SSCToEval, EqnOutputsToPrimary, UIToSecondary, SecondaryOutputsToUI}
}

// ParseRelationKind maps a declarative-data name back to its kind.
func ParseRelationKind(name string) (RelationKind, error) {
	for i, n := range relationKindNames {
		if n == name {
			return RelationKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown relation kind %q", name)
}

// Relation is one (source, target) pair within a relation set.
type Relation struct {
	Source string
	Target string
}

// PageInfo describes one UI page: the sidebar title, the forms always
// shown, and forms shown only for specific values of an exclusive
// selector variable.
type PageInfo struct {
	SidebarTitle   string
	CommonForms    []string
	ExclusiveVar   string
	ExclusiveForms []string
}

// EquationInfo declares one equation invocation: its UI input and output
// variable names. Order matters for display, not for resolution.
type EquationInfo struct {
	Name    string
	Inputs  []string
	Outputs []string
}

// SecondaryModuleInfo declares one secondary-module invocation within a
// configuration, with its input and output variable names.
type SecondaryModuleInfo struct {
	Name    string
	Inputs  []string
	Outputs []string
}

// BindingSet is a configuration's record of how UI variables, equation
// inputs/outputs and secondary-module inputs/outputs relate. Relation sets
// keep insertion order so exported forms are deterministic, with a
// uniqueness index giving them true set semantics.
type BindingSet struct {
	relations [len(relationKindNames)][]Relation
	index     [len(relationKindNames)]map[Relation]struct{}

	// PrimaryInputs holds raw UI variables consumed directly by the
	// primary simulation; SecondaryInputs the raw variables consumed by
	// secondary modules; EvaluatedInputs the variables whose values only
	// ever come from equations or modules.
	PrimaryInputs   []string
	SecondaryInputs []string
	EvaluatedInputs []string

	Equations []EquationInfo
	Modules   []SecondaryModuleInfo
}

// Add inserts a (source, target) pair into the given relation set.
// Re-adding an identical pair is a no-op; it returns whether the pair was
// newly inserted. A self-referential pair is rejected.
func (bs *BindingSet) Add(kind RelationKind, source, target string) (bool, error) {
	if source == target && kind != EqnOutputsToPrimary && kind != SSCToEval {
		return false, fmt.Errorf("%s: self-referential pair %q -> %q", kind, source, target)
	}
	rel := Relation{Source: source, Target: target}
	if bs.index[kind] == nil {
		bs.index[kind] = make(map[Relation]struct{})
	}
	if _, dup := bs.index[kind][rel]; dup {
		return false, nil
	}
	bs.index[kind][rel] = struct{}{}
	bs.relations[kind] = append(bs.relations[kind], rel)
	return true, nil
}

// Relations returns the pairs of one set in insertion order. The returned
// slice is shared; callers must not mutate it.
func (bs *BindingSet) Relations(kind RelationKind) []Relation {
	return bs.relations[kind]
}

// Configuration is one named technology/financial setup: its UI pages,
// its primary and secondary compute modules, and the binding set tying
// their variables together.
type Configuration struct {
	Name             string
	Pages            []PageInfo
	PrimaryModules   []string
	SecondaryModules []string
	Bindings         BindingSet
}

// UIForms flattens the configuration's pages into the full list of form
// names, common forms first within each page, in page order.
func (c *Configuration) UIForms() []string {
	var forms []string
	for _, page := range c.Pages {
		forms = append(forms, page.CommonForms...)
		forms = append(forms, page.ExclusiveForms...)
	}
	return forms
}
