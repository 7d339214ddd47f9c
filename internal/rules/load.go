package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prefabmig/prefabmig/internal/uuids"
)

// rulesFile is the on-disk YAML shape of the rule tables.
type rulesFile struct {
	Transforms map[string][]Transform `yaml:"transforms"`
	Removals   []string               `yaml:"removals"`
	Whitelist  map[string][]string    `yaml:"whitelist"`
	Scripts    map[string]ScriptRemap `yaml:"scripts"`
}

// Load reads the rule tables from a YAML file and normalizes every script
// identifier through the codec so table lookups match the compact form the
// graph carries.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return Parse(data)
}

// Parse decodes and normalizes rule tables from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	cfg := &Config{
		Transforms: f.Transforms,
		Removals:   make(map[string]bool, len(f.Removals)),
		Whitelist:  make(map[string]map[string]bool, len(f.Whitelist)),
		Scripts:    make(map[string]ScriptRemap, len(f.Scripts)),
	}
	if cfg.Transforms == nil {
		cfg.Transforms = map[string][]Transform{}
	}
	for _, kind := range f.Removals {
		cfg.Removals[kind] = true
	}
	for kind, fields := range f.Whitelist {
		set := make(map[string]bool, len(fields))
		for _, name := range fields {
			set[name] = true
		}
		cfg.Whitelist[kind] = set
	}
	for id, remap := range f.Scripts {
		remap.To = uuids.NormalizeShort(remap.To)
		cfg.Scripts[uuids.NormalizeShort(id)] = remap
	}
	return cfg, nil
}

// LoadAssetTable reads an identifier-to-path table (YAML mapping) used to
// derive the global substitution list.
func LoadAssetTable(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset table: %w", err)
	}
	var table map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse asset table: %w", err)
	}
	return table, nil
}
