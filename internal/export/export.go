// Package export renders binding sets and provenance traces into a
// stable textual form for diagnostics and snapshot tests. Rendering is
// pure: it never mutates state and never affects resolution. Entries are
// explicitly ordered (configuration name, then relation kind, then source
// variable) so output does not depend on map iteration order.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/varflow/internal/bindings"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/evaluator"
)

// tuple renders a name list as ('a', 'b').
func tuple(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// Bindings renders one configuration's binding set.
func Bindings(configName string, bs *config.BindingSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s': {\n", configName)
	fmt.Fprintf(&b, "\t'primary_inputs': %s,\n", tuple(bs.PrimaryInputs))
	fmt.Fprintf(&b, "\t'secondary_inputs': %s,\n", tuple(bs.SecondaryInputs))
	fmt.Fprintf(&b, "\t'evaluated_inputs': %s,\n", tuple(bs.EvaluatedInputs))

	b.WriteString("\t'equations': {\n")
	for _, eq := range bs.Equations {
		fmt.Fprintf(&b, "\t\t'%s': %s:\n\t\t\t%s,\n", eq.Name, tuple(eq.Inputs), tuple(eq.Outputs))
	}
	b.WriteString("\t},\n")

	b.WriteString("\t'secondary_cmods': {\n")
	for _, mod := range bs.Modules {
		fmt.Fprintf(&b, "\t\t'%s': %s:\n\t\t\t%s,\n", mod.Name, tuple(mod.Inputs), tuple(mod.Outputs))
	}
	b.WriteString("\t},\n")

	for _, kind := range config.RelationKinds() {
		rels := append([]config.Relation(nil), bs.Relations(kind)...)
		sort.Slice(rels, func(i, j int) bool {
			if rels[i].Source != rels[j].Source {
				return rels[i].Source < rels[j].Source
			}
			return rels[i].Target < rels[j].Target
		})
		fmt.Fprintf(&b, "\t'%s': {\n", kind)
		for _, rel := range rels {
			fmt.Fprintf(&b, "\t\t('%s', '%s'),\n", rel.Source, rel.Target)
		}
		b.WriteString("\t},\n")
	}

	b.WriteString("}\n")
	return b.String()
}

// AllBindings renders every valid configuration in the store, sorted by
// configuration name. Quarantined configurations are rendered as their
// load error so diagnostics show why they are absent.
func AllBindings(store *bindings.Store) string {
	var b strings.Builder
	b.WriteString("config_variables_info = {\n")
	for _, name := range store.Names() {
		bs, err := store.BindingSet(name)
		if err != nil {
			fmt.Fprintf(&b, "'%s': <load error: %v>\n", name, err)
			continue
		}
		b.WriteString(Bindings(name, bs))
	}
	b.WriteString("}\n")
	return b.String()
}

// Provenance renders an evaluation trace, one line per variable, in order
// position then variable name order.
func Provenance(trace *evaluator.Trace) string {
	var b strings.Builder
	b.WriteString("provenance = {\n")
	for _, p := range trace.Entries() {
		fmt.Fprintf(&b, "\t'%s': ('%s', %d),\n", p.Variable, p.Producer, p.Position)
	}
	b.WriteString("}\n")
	return b.String()
}

// Configuration renders the full per-configuration summary: pages and
// forms, modules, then the binding set.
func Configuration(cfg *config.Configuration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s': {\n", cfg.Name)
	fmt.Fprintf(&b, "\t'primary_modules': %s,\n", tuple(cfg.PrimaryModules))
	fmt.Fprintf(&b, "\t'secondary_cmods': %s,\n", tuple(cfg.SecondaryModules))
	b.WriteString("\t'pages': {\n")
	for _, page := range cfg.Pages {
		fmt.Fprintf(&b, "\t\t'%s': {'common': %s", page.SidebarTitle, tuple(page.CommonForms))
		if page.ExclusiveVar != "" {
			fmt.Fprintf(&b, ", 'exclusive_var': '%s', 'exclusive': %s", page.ExclusiveVar, tuple(page.ExclusiveForms))
		}
		b.WriteString("},\n")
	}
	b.WriteString("\t},\n")
	fmt.Fprintf(&b, "\t'ui_forms': %s,\n", tuple(cfg.UIForms()))
	b.WriteString("}\n")
	return b.String()
}
