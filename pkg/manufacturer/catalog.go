// Copyright 2026 Kismetcam Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package manufacturer

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var embeddedCatalogYAML []byte

// Entry maps one hardware address prefix to a manufacturer.
type Entry struct {
	OUI        string  `yaml:"oui" validate:"required,len=8"`
	Name       string  `yaml:"name" validate:"required"`
	Category   string  `yaml:"category" validate:"required,oneof=camera networking computing iot unknown"`
	Confidence float64 `yaml:"confidence" validate:"gte=0,lte=1"`
}

// AliasSet lists alternate spellings of a canonical manufacturer name.
type AliasSet struct {
	Name    string   `yaml:"name" validate:"required"`
	Aliases []string `yaml:"aliases"`
}

type catalogFile struct {
	Entries []Entry    `yaml:"entries"`
	Aliases []AliasSet `yaml:"aliases"`
}

// Catalog is the read-only manufacturer table. Build it once with
// LoadBuiltin or LoadFile and share it freely.
type Catalog struct {
	byOUI   map[string]Entry
	order   []string // prefixes in first-seen order
	aliases []AliasSet
	// Duplicates lists prefixes that were declared more than once. The last
	// declaration wins.
	Duplicates []string
}

var (
	validate    = validator.New()
	parseYAMLFn = parseCatalogYAML
)

// LoadBuiltin returns the catalog embedded in the binary.
func LoadBuiltin() (*Catalog, error) {
	file, err := parseYAMLFn(embeddedCatalogYAML)
	if err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	cat := newCatalog()
	cat.merge(file)
	cat.warnDuplicates("embedded")
	return cat, nil
}

// MustLoadBuiltin is LoadBuiltin for package initialisation and tests.
func MustLoadBuiltin() *Catalog {
	cat, err := LoadBuiltin()
	if err != nil {
		panic(err)
	}
	return cat
}

// LoadFile returns the embedded catalog extended with the entries and
// aliases of the YAML file at path. File entries replace embedded entries
// with the same prefix.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("catalog path not specified")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	extra, err := parseYAMLFn(content)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	base, err := parseYAMLFn(embeddedCatalogYAML)
	if err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	cat := newCatalog()
	cat.merge(base)
	embeddedDupes := len(cat.Duplicates)
	cat.merge(extra)
	cat.Duplicates = cat.Duplicates[:embeddedDupes]
	cat.warnDuplicates("embedded")
	return cat, nil
}

func parseCatalogYAML(content []byte) (catalogFile, error) {
	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return catalogFile{}, err
	}
	return file, nil
}

func newCatalog() *Catalog {
	return &Catalog{byOUI: make(map[string]Entry)}
}

// merge applies entries in order, skipping ones that fail validation.
func (c *Catalog) merge(file catalogFile) {
	for _, entry := range file.Entries {
		entry.OUI = NormalizeMAC(entry.OUI)
		entry.Name = strings.TrimSpace(entry.Name)
		if err := validate.Struct(entry); err != nil {
			log.Warn().Err(err).Str("oui", entry.OUI).Msg("Skipping invalid catalog entry")
			continue
		}
		if _, exists := c.byOUI[entry.OUI]; exists {
			c.Duplicates = append(c.Duplicates, entry.OUI)
		} else {
			c.order = append(c.order, entry.OUI)
		}
		c.byOUI[entry.OUI] = entry
	}

	for _, set := range file.Aliases {
		if err := validate.Struct(set); err != nil {
			log.Warn().Err(err).Msg("Skipping invalid alias set")
			continue
		}
		c.aliases = append(c.aliases, set)
	}
}

func (c *Catalog) warnDuplicates(source string) {
	if len(c.Duplicates) == 0 {
		return
	}
	log.Debug().
		Str("catalog", source).
		Strs("prefixes", c.Duplicates).
		Msg("Catalog declares some prefixes more than once; later entries win")
}

// Lookup returns the entry for an uppercase "XX:XX:XX" prefix.
func (c *Catalog) Lookup(oui string) (Entry, bool) {
	entry, ok := c.byOUI[oui]
	return entry, ok
}

// CategoryOf returns the category of the first entry whose name equals name.
func (c *Catalog) CategoryOf(name string) (string, bool) {
	for _, oui := range c.order {
		if entry := c.byOUI[oui]; entry.Name == name {
			return entry.Category, true
		}
	}
	return "", false
}

// AliasesOf returns the alternate spellings of a canonical name.
func (c *Catalog) AliasesOf(name string) []string {
	for _, set := range c.aliases {
		if set.Name == name {
			return append([]string(nil), set.Aliases...)
		}
	}
	return nil
}

// Len reports the number of distinct prefixes.
func (c *Catalog) Len() int {
	return len(c.byOUI)
}

// NormalizeMAC uppercases a hardware address and uses ':' separators.
func NormalizeMAC(mac string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(mac)), "-", ":")
}
