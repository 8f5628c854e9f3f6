package pdf

import "sort"

// DriverConfig is the registry entry for a single driver.
type DriverConfig struct {
	// Includes are resource paths relative to Config.LibPath.
	Includes []string `mapstructure:"includes" json:"includes" yaml:"includes"`
	Class    string   `mapstructure:"class" json:"class" yaml:"class"`
}

// Config holds the driver registry configuration.
type Config struct {
	DefaultDriver string                  `mapstructure:"default_driver" json:"default_driver" yaml:"default_driver"`
	LibPath       string                  `mapstructure:"lib_path" json:"lib_path" yaml:"lib_path"`
	Drivers       map[string]DriverConfig `mapstructure:"drivers" json:"drivers" yaml:"drivers"`
}

// Registry builds a DriverRegistry from the configured drivers.
func (c Config) Registry() (*DriverRegistry, error) {
	registry := NewDriverRegistry()
	names := make([]string, 0, len(c.Drivers))
	for name := range c.Drivers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		driver := c.Drivers[name]
		if err := registry.Register(DriverDescriptor{
			Name:      name,
			Resources: driver.Includes,
			Type:      driver.Class,
		}); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
