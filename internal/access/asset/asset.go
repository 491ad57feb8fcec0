// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package asset maps asset identifiers to gateway reader names and permissions.

The mapping is YAML text held in the access settings:

	lathe:
	  reader_name: lathe_reader
	  permission_id: woodshop
	  category: workshop
	  display_name: Lathe
	frontdoor:
	  reader_name: front_reader
	  permission_id: main_door

# Resolution

  - Unknown asset ids resolve to themselves for both reader and permission.
  - Every reader name is normalized to end with [constants.ReaderSuffix].
  - Suffix comparison is byte-exact and case-sensitive.

A mapping that cannot be parsed behaves like an empty one.
*/
package asset

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/toolauth/internal/platform/constants"
)

// # Entities

// Mapping is one entry of the asset map.
type Mapping struct {
	ReaderName   string `yaml:"reader_name" json:"reader_name,omitempty"`
	PermissionID string `yaml:"permission_id" json:"permission_id,omitempty"`
	Category     string `yaml:"category" json:"category,omitempty"`
	DisplayName  string `yaml:"display_name" json:"display_name,omitempty"`
	Description  string `yaml:"description" json:"description,omitempty"`
	ImageURL     string `yaml:"image_url" json:"image_url,omitempty"`
}

// Resolution is what the gateway needs to know about an asset.
type Resolution struct {
	AssetID      string `json:"asset_id"`
	ReaderName   string `json:"reader_name"`
	PermissionID string `json:"permission_id"`
	Mapped       bool   `json:"mapped"`
}

// Registry is a parsed, read-only asset map. The zero value is an empty registry.
type Registry struct {
	order    []string
	mappings map[string]Mapping
}

// # Parsing

/*
Parse reads the YAML asset map.

Description: Empty text yields an empty registry. The document root must be a
mapping of asset id to entry; a null entry is accepted and means "all defaults".
Entry order is preserved for listing.

Parameters:
  - text: string (YAML)

Returns:
  - *Registry: never nil, empty when err is set
  - error: syntax or shape errors
*/
func Parse(text string) (*Registry, error) {
	registry := &Registry{mappings: make(map[string]Mapping)}
	if strings.TrimSpace(text) == "" {
		return registry, nil
	}

	var document yaml.Node
	if err := yaml.Unmarshal([]byte(text), &document); err != nil {
		return &Registry{}, fmt.Errorf("asset_map_parse_failed: %w", err)
	}

	// A comment-only document has no content
	if len(document.Content) == 0 {
		return registry, nil
	}

	root := document.Content[0]
	if root.Kind != yaml.MappingNode {
		return &Registry{}, fmt.Errorf("asset_map_parse_failed: line %d: root must be a mapping", root.Line)
	}

	for index := 0; index+1 < len(root.Content); index += 2 {
		key, value := root.Content[index], root.Content[index+1]
		assetID := key.Value

		// An alias entry reuses the anchored mapping
		for value.Kind == yaml.AliasNode && value.Alias != nil {
			value = value.Alias
		}

		if _, exists := registry.mappings[assetID]; exists {
			return &Registry{}, fmt.Errorf("asset_map_parse_failed: line %d: duplicate asset %q", key.Line, assetID)
		}

		var mapping Mapping
		switch {
		case value.Tag == "!!null":
		case value.Kind == yaml.MappingNode:
			if err := value.Decode(&mapping); err != nil {
				return &Registry{}, fmt.Errorf("asset_map_parse_failed: asset %q: %w", assetID, err)
			}
		default:
			return &Registry{}, fmt.Errorf("asset_map_parse_failed: line %d: asset %q must be a mapping", value.Line, assetID)
		}

		registry.order = append(registry.order, assetID)
		registry.mappings[assetID] = mapping
	}

	return registry, nil
}

// # Lookup

// Len returns the number of mapped assets.
func (registry *Registry) Len() int {
	return len(registry.order)
}

// Lookup returns the raw entry of a mapped asset.
func (registry *Registry) Lookup(assetID string) (Mapping, bool) {
	mapping, ok := registry.mappings[assetID]
	return mapping, ok
}

/*
Resolve returns the reader name and permission id for an asset.

Description: Missing or empty fields default to the asset id itself. The reader
name is then normalized with [NormalizeReader]; the permission id is not.
*/
func (registry *Registry) Resolve(assetID string) Resolution {
	mapping, mapped := registry.mappings[assetID]

	readerName := mapping.ReaderName
	if readerName == "" {
		readerName = assetID
	}

	permissionID := mapping.PermissionID
	if permissionID == "" {
		permissionID = assetID
	}

	return Resolution{
		AssetID:      assetID,
		ReaderName:   NormalizeReader(readerName),
		PermissionID: permissionID,
		Mapped:       mapped,
	}
}

// NormalizeReader appends the reader suffix unless the name already ends with it.
func NormalizeReader(name string) string {
	if strings.HasSuffix(name, constants.ReaderSuffix) {
		return name
	}
	return name + constants.ReaderSuffix
}

// # Listing

// Asset is a mapped asset as presented by the listing endpoint.
type Asset struct {
	ID string `json:"id"`
	Mapping
	ReaderName   string `json:"reader_name"`
	PermissionID string `json:"permission_id"`
	RequestURL   string `json:"request_url"`
}

// List returns the mapped assets in map order, optionally restricted to one category.
func (registry *Registry) List(category string) []Asset {
	assets := make([]Asset, 0, len(registry.order))
	for _, assetID := range registry.order {
		mapping := registry.mappings[assetID]
		if category != "" && mapping.Category != category {
			continue
		}

		resolution := registry.Resolve(assetID)
		assets = append(assets, Asset{
			ID:           assetID,
			Mapping:      mapping,
			ReaderName:   resolution.ReaderName,
			PermissionID: resolution.PermissionID,
			RequestURL:   RequestURL(assetID),
		})
	}
	return assets
}

// RequestURL is the website request link of an asset.
func RequestURL(assetID string) string {
	return constants.AccessAssetsPath + "/" + assetID + "/request?method=" + constants.MethodWebsite
}
