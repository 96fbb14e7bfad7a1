// Package flint runs the Flint front end: declaration manifests go in,
// a checked semantic environment and per-contract layouts come out.
package flint

import (
	"github.com/tos-network/flint/flint/ast"
	"github.com/tos-network/flint/flint/config"
	"github.com/tos-network/flint/flint/diag"
	"github.com/tos-network/flint/flint/lower"
	"github.com/tos-network/flint/flint/manifest"
	"github.com/tos-network/flint/flint/sema"
)

const (
	PackageName      = "Flint"
	PackageVersion   = "0.1.0"
	PackageCopyRight = PackageName + " " + PackageVersion + " Copyright (C) 2026 The tos-network authors."
)

// ParseManifest decodes a YAML declaration manifest into a syntax tree.
func ParseManifest(source []byte, name string) (*ast.Module, error) {
	return manifest.Decode(source, name)
}

// CheckModule runs the configured passes over mod. A nil cfg means the
// defaults. The returned diagnostics may hold warnings even when the module
// checks; err is set only when cfg cannot be applied.
func CheckModule(mod *ast.Module, cfg *config.Config) (*sema.CheckedModule, diag.Diagnostics, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	opts, err := cfg.SemaOptions()
	if err != nil {
		return nil, nil, err
	}
	checked, diags := sema.Check(mod, opts)
	return checked, diags, nil
}

// Analyze parses and checks a manifest.
func Analyze(source []byte, name string, cfg *config.Config) (*sema.CheckedModule, diag.Diagnostics, error) {
	mod, err := ParseManifest(source, name)
	if err != nil {
		return nil, nil, err
	}
	return CheckModule(mod, cfg)
}

// LayoutModule checks mod and lowers every contract in it.
func LayoutModule(mod *ast.Module, cfg *config.Config) ([]*lower.Program, error) {
	checked, diags, err := CheckModule(mod, cfg)
	if err != nil {
		return nil, err
	}
	if diags.HasErrors() {
		return nil, diags.Errors()
	}
	return lower.FromEnvironment(checked.Environment)
}

// BuildLayout parses, checks and lowers a manifest.
func BuildLayout(source []byte, name string, cfg *config.Config) ([]*lower.Program, error) {
	mod, err := ParseManifest(source, name)
	if err != nil {
		return nil, err
	}
	return LayoutModule(mod, cfg)
}
