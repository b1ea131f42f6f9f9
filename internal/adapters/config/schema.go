package config

// Kilnfile represents the structure of kiln.yaml. Every field is optional.
type Kilnfile struct {
	Version     string     `yaml:"version"`
	Root        string     `yaml:"root"`
	Source      string     `yaml:"source"`
	Output      string     `yaml:"output"`
	Vendors     []string   `yaml:"vendors"`
	Browsers    []string   `yaml:"browsers"`
	Server      *ServerDTO `yaml:"server"`
	Debounce    string     `yaml:"debounce"`
	Parallelism int        `yaml:"parallelism"`
}

// ServerDTO configures the dev server.
type ServerDTO struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SupportedVersion is the only kiln.yaml schema version understood.
const SupportedVersion = "1"
