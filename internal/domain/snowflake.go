package domain

// Recognized use case template ids for Snowflake upstream components.
const (
	SnowflakeStorageTemplateID    = "urn:dmb:utm:snowflake-storage-template:0.0.0"
	SnowflakeOutputPortTemplateID = "urn:dmb:utm:snowflake-outputport-template:0.0.0"
)

// SnowflakeObjectKind discriminates the physical objects a Snowflake
// component declares.
type SnowflakeObjectKind string

const (
	SnowflakeTable SnowflakeObjectKind = "TABLE"
	SnowflakeView  SnowflakeObjectKind = "VIEW"
)

// SnowflakeObject is one declared table or view with its column schema.
type SnowflakeObject struct {
	Name   string
	Schema []ColumnDefinition
	Kind   SnowflakeObjectKind
}

// SnowflakeMetadata is the derived view of an upstream Snowflake component:
// the database, schema and physical objects the data source exposes.
type SnowflakeMetadata struct {
	Database string
	Schema   string
	Objects  []SnowflakeObject
}

// TableAndSchema is one declared table of a Snowflake storage area.
type TableAndSchema struct {
	TableName string             `yaml:"tableName" json:"tableName"`
	Schema    []ColumnDefinition `yaml:"schema" json:"schema"`
}

// SnowflakeStorageSpec is the specific section of a Snowflake storage area.
type SnowflakeStorageSpec struct {
	Database string           `yaml:"database" json:"database"`
	Schema   string           `yaml:"schema" json:"schema"`
	Tables   []TableAndSchema `yaml:"tables" json:"tables"`
}

// SnowflakeOutputPortSpec is the specific section of a Snowflake output
// port. The view schema comes from the component's data contract.
type SnowflakeOutputPortSpec struct {
	Database  string `yaml:"database" json:"database"`
	Schema    string `yaml:"schema" json:"schema"`
	ViewName  string `yaml:"viewName" json:"viewName"`
	TableName string `yaml:"tableName" json:"tableName"`
}

// SnowflakeMetadataOf extracts the Snowflake metadata of a storage area or
// output port component, based on its kind.
func SnowflakeMetadataOf(c *Component) (*SnowflakeMetadata, *ValidationError) {
	switch c.Kind {
	case KindStorageArea:
		var spec SnowflakeStorageSpec
		if verr := c.DecodeSpecific(&spec); verr != nil {
			return nil, WrapValidation("Unable to extract Snowflake metadata.", verr)
		}
		objects := make([]SnowflakeObject, 0, len(spec.Tables))
		for _, t := range spec.Tables {
			objects = append(objects, SnowflakeObject{Name: t.TableName, Schema: t.Schema, Kind: SnowflakeTable})
		}
		return &SnowflakeMetadata{Database: spec.Database, Schema: spec.Schema, Objects: objects}, nil
	case KindOutputPort:
		var spec SnowflakeOutputPortSpec
		if verr := c.DecodeSpecific(&spec); verr != nil {
			return nil, WrapValidation("Unable to extract Snowflake metadata.", verr)
		}
		var schema []ColumnDefinition
		if c.DataContract != nil {
			schema = c.DataContract.Schema
		}
		return &SnowflakeMetadata{
			Database: spec.Database,
			Schema:   spec.Schema,
			Objects:  []SnowflakeObject{{Name: spec.ViewName, Schema: schema, Kind: SnowflakeView}},
		}, nil
	default:
		return nil, ErrValidation(
			"Dependency %s must be a Snowflake component but is neither a Storage Area nor an Output Port", c.ID)
	}
}
