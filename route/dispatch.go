package route

// Dependency describes one value a dispatch target needs from the service container.
type Dependency struct {
	// Name is the argument name the resolved value is bound to.
	Name string `mapstructure:"name" yaml:"name" json:"name"`
	// Service is the container alias resolved for it.
	Service string `mapstructure:"service" yaml:"service" json:"service"`
}

// Dispatch names the target of a route and lists what it depends on.
type Dispatch struct {
	// Controller is "alias:Method" for container controllers, or a free form name for functions.
	Controller   string       `mapstructure:"controller" yaml:"controller,omitempty" json:"controller,omitempty"`
	Dependencies []Dependency `mapstructure:"dependencies" yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
}

func (d Dispatch) clone() Dispatch {
	result := d
	result.Dependencies = append([]Dependency(nil), d.Dependencies...)

	return result
}

func (d Dispatch) WithoutDependency(service string) Dispatch {
	result := Dispatch{Controller: d.Controller}
	for _, dependency := range d.Dependencies {
		if dependency.Service != service {
			result.Dependencies = append(result.Dependencies, dependency)
		}
	}

	return result
}

// WithoutArgument drops the dependency bound to an argument name.
func (d Dispatch) WithoutArgument(name string) Dispatch {
	result := Dispatch{Controller: d.Controller}
	for _, dependency := range d.Dependencies {
		if dependency.Name != name {
			result.Dependencies = append(result.Dependencies, dependency)
		}
	}

	return result
}
