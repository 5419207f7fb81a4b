package route

import (
	"fmt"

	"github.com/spf13/cast"
)

type CastType string

const (
	CastString CastType = "string"
	CastInt    CastType = "int"
	CastFloat  CastType = "float"
	CastBool   CastType = "bool"
	// CastEntity resolves a domain object by looking the raw value up in a column.
	CastEntity CastType = "entity"

	DefaultLookupColumn = "id"
)

type Cast struct {
	Type   CastType `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	Entity string   `mapstructure:"entity" yaml:"entity,omitempty" json:"entity,omitempty"`
	Column string   `mapstructure:"column" yaml:"column,omitempty" json:"column,omitempty"`
}

func (c Cast) IsEntity() bool {
	return CastEntity == c.Type
}

// LookupColumn is the column an entity cast searches, "id" unless configured.
func (c Cast) LookupColumn() string {
	if "" == c.Column {
		return DefaultLookupColumn
	}

	return c.Column
}

// Apply converts a raw path value for scalar casts. Entity casts are left to an EntityResolver.
func (c Cast) Apply(raw string) (interface{}, error) {
	switch c.Type {
	case "", CastString, CastEntity:
		return raw, nil
	case CastInt:
		return cast.ToIntE(raw)
	case CastFloat:
		return cast.ToFloat64E(raw)
	case CastBool:
		return cast.ToBoolE(raw)
	}

	return nil, fmt.Errorf("unknown cast type %q", c.Type)
}

//--------------------

type Parameter struct {
	Name      string `mapstructure:"name" yaml:"name" json:"name"`
	Regex     string `mapstructure:"regex" yaml:"regex,omitempty" json:"regex,omitempty"`
	Optional  bool   `mapstructure:"optional" yaml:"optional,omitempty" json:"optional,omitempty"`
	Default   string `mapstructure:"default" yaml:"default,omitempty" json:"default,omitempty"`
	NoCapture bool   `mapstructure:"no_capture" yaml:"no_capture,omitempty" json:"no_capture,omitempty"`
	Cast      Cast   `mapstructure:"cast" yaml:"cast,omitempty" json:"cast,omitempty"`
}
