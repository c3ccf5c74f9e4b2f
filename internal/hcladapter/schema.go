package hcladapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of one static-data file.
type fileRoot struct {
	Variables      []*variableBlock      `hcl:"variable,block"`
	Configurations []*configurationBlock `hcl:"configuration,block"`
}

// variableBlock declares one catalog variable and its optional default.
// The default stays an expression until translation so any of the five
// value shapes can appear.
type variableBlock struct {
	Name         string         `hcl:"name,label"`
	Default      hcl.Expression `hcl:"default,optional"`
	ReferencedBy []string       `hcl:"referenced_by,optional"`
}

// configurationBlock declares one technology/financial configuration.
type configurationBlock struct {
	Name             string          `hcl:"name,label"`
	PrimaryModules   []string        `hcl:"primary_modules,optional"`
	SecondaryModules []string        `hcl:"secondary_modules,optional"`
	PrimaryInputs    []string        `hcl:"primary_inputs,optional"`
	SecondaryInputs  []string        `hcl:"secondary_inputs,optional"`
	EvaluatedInputs  []string        `hcl:"evaluated_inputs,optional"`
	Pages            []*pageBlock    `hcl:"page,block"`
	Forms            []*formBlock    `hcl:"form,block"`
	Bindings         []*bindingBlock `hcl:"binding,block"`
}

// pageBlock declares one UI page of a configuration.
type pageBlock struct {
	SidebarTitle   string   `hcl:"sidebar_title"`
	CommonForms    []string `hcl:"common_forms,optional"`
	ExclusiveVar   string   `hcl:"exclusive_var,optional"`
	ExclusiveForms []string `hcl:"exclusive_forms,optional"`
}

// formBlock groups the equations and secondary modules declared by one UI
// form. The form name scopes generated equation names.
type formBlock struct {
	Name      string           `hcl:"name,label"`
	Equations []*equationBlock `hcl:"equation,block"`
	Modules   []*moduleBlock   `hcl:"module,block"`
}

// equationBlock declares one equation's UI inputs and outputs.
type equationBlock struct {
	Inputs  []string `hcl:"inputs"`
	Outputs []string `hcl:"outputs"`
}

// moduleBlock declares one secondary-module invocation.
type moduleBlock struct {
	Name    string   `hcl:"name,label"`
	Inputs  []string `hcl:"inputs"`
	Outputs []string `hcl:"outputs"`
}

// bindingBlock declares one (source, target) relation pair. The label is
// the relation kind name, e.g. "eqn_outputs_to_primary".
type bindingBlock struct {
	Kind   string `hcl:"kind,label"`
	Source string `hcl:"source"`
	Target string `hcl:"target"`
}
