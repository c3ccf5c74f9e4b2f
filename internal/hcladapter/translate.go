package hcladapter

import (
	"fmt"

	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/varvalue"
)

// translateVariable evaluates a variable block's default expression and
// classifies it into one of the five value kinds.
func (l *Loader) translateVariable(block *variableBlock) (config.VariableDecl, error) {
	decl := config.VariableDecl{
		Name:         block.Name,
		ReferencedBy: block.ReferencedBy,
	}
	if block.Default == nil {
		return decl, nil
	}
	ctyVal, diags := block.Default.Value(nil)
	if diags.HasErrors() {
		return decl, fmt.Errorf("variable %q: evaluating default: %w", block.Name, diags)
	}
	def, err := varvalue.FromCty(ctyVal)
	if err != nil {
		return decl, fmt.Errorf("variable %q: default: %w", block.Name, err)
	}
	decl.Default = def
	return decl, nil
}

// translateConfiguration builds the configuration record. Equations are
// named after the form that declares them ("<form>#<index>") via a
// translation-local form accumulator; they never leak through shared
// state across configurations.
func (l *Loader) translateConfiguration(block *configurationBlock) (*config.Configuration, error) {
	cfg := &config.Configuration{
		Name:             block.Name,
		PrimaryModules:   block.PrimaryModules,
		SecondaryModules: block.SecondaryModules,
	}
	cfg.Bindings.PrimaryInputs = block.PrimaryInputs
	cfg.Bindings.SecondaryInputs = block.SecondaryInputs
	cfg.Bindings.EvaluatedInputs = block.EvaluatedInputs

	for _, page := range block.Pages {
		cfg.Pages = append(cfg.Pages, config.PageInfo{
			SidebarTitle:   page.SidebarTitle,
			CommonForms:    page.CommonForms,
			ExclusiveVar:   page.ExclusiveVar,
			ExclusiveForms: page.ExclusiveForms,
		})
	}

	for _, form := range block.Forms {
		for i, eq := range form.Equations {
			cfg.Bindings.Equations = append(cfg.Bindings.Equations, config.EquationInfo{
				Name:    fmt.Sprintf("%s#%d", form.Name, i),
				Inputs:  eq.Inputs,
				Outputs: eq.Outputs,
			})
		}
		for _, mod := range form.Modules {
			cfg.Bindings.Modules = append(cfg.Bindings.Modules, config.SecondaryModuleInfo{
				Name:    mod.Name,
				Inputs:  mod.Inputs,
				Outputs: mod.Outputs,
			})
		}
	}

	for _, binding := range block.Bindings {
		kind, err := config.ParseRelationKind(binding.Kind)
		if err != nil {
			return nil, fmt.Errorf("configuration %q: %w", block.Name, err)
		}
		if _, err := cfg.Bindings.Add(kind, binding.Source, binding.Target); err != nil {
			return nil, fmt.Errorf("configuration %q: %w", block.Name, err)
		}
	}

	return cfg, nil
}
