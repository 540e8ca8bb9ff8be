package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// CurrentSchemaVersion is the configuration schema version this build reads.
const CurrentSchemaVersion = "1.0.0"

//go:embed schemas/specex-config-v1.0.0.json
var schemaV1 string

// SchemaVersion represents a configuration schema version
type SchemaVersion struct {
	Major int
	Minor int
	Patch int
}

// String returns the string representation of the version
func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseSchemaVersion parses a version string into SchemaVersion
func ParseSchemaVersion(version string) (SchemaVersion, error) {
	version = strings.TrimPrefix(version, "v")
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return SchemaVersion{}, fmt.Errorf("invalid version format: %s", version)
	}

	var v SchemaVersion
	_, err := fmt.Sscanf(version, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch)
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("failed to parse version: %v", err)
	}
	return v, nil
}

// ValidateConfig validates configuration data, encoded as JSON, against the
// schema of the given version.
func ValidateConfig(configData []byte, schemaVersion string) error {
	schemaLoader, err := getSchemaLoader(schemaVersion)
	if err != nil {
		return fmt.Errorf("failed to load schema for version %s: %v", schemaVersion, err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(configData))
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}

func getSchemaLoader(version string) (gojsonschema.JSONLoader, error) {
	v, err := ParseSchemaVersion(version)
	if err != nil {
		return nil, err
	}
	if v.Major != 1 {
		return nil, fmt.Errorf("unsupported schema version: %s", version)
	}
	return gojsonschema.NewStringLoader(schemaV1), nil
}
