package wire

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/attributes.yaml
var catalogFS embed.FS

// AttrDef names one attribute id and a recommended storage size, as
// published in the default catalog manifest.
type AttrDef struct {
	ID                 uint8  `yaml:"id"`
	Name               string `yaml:"name"`
	RecommendedMaxLen  uint16 `yaml:"recommended_max_len"`
}

// Catalog is the default attribute-subscription preset manifest: the
// recommended max_len for every notification and app attribute, used to
// size caller storage buffers before calling AttributeTable.Add.
type Catalog struct {
	Version                string    `yaml:"version"`
	Description            string    `yaml:"description"`
	NotificationAttributes []AttrDef `yaml:"notification_attributes"`
	AppAttributes          []AttrDef `yaml:"app_attributes"`
}

var (
	catalogOnce sync.Once
	catalog     *Catalog
	catalogErr  error
)

// DefaultCatalog loads and caches the embedded attribute catalog.
func DefaultCatalog() (*Catalog, error) {
	catalogOnce.Do(func() {
		data, err := catalogFS.ReadFile("catalog/attributes.yaml")
		if err != nil {
			catalogErr = fmt.Errorf("ancs: read embedded catalog: %w", err)
			return
		}
		var c Catalog
		if err := yaml.Unmarshal(data, &c); err != nil {
			catalogErr = fmt.Errorf("ancs: parse embedded catalog: %w", err)
			return
		}
		catalog = &c
	})
	return catalog, catalogErr
}

// NotifMaxLen returns the catalog's recommended max_len for a
// notification attribute id, or ok=false if the catalog has no entry
// for it.
func (c *Catalog) NotifMaxLen(id NotifAttributeID) (uint16, bool) {
	for _, d := range c.NotificationAttributes {
		if NotifAttributeID(d.ID) == id {
			return d.RecommendedMaxLen, true
		}
	}
	return 0, false
}

// AppMaxLen returns the catalog's recommended max_len for an app
// attribute id, or ok=false if the catalog has no entry for it.
func (c *Catalog) AppMaxLen(id AppAttributeID) (uint16, bool) {
	for _, d := range c.AppAttributes {
		if AppAttributeID(d.ID) == id {
			return d.RecommendedMaxLen, true
		}
	}
	return 0, false
}
