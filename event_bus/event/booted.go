package event

// Booted is dispatched once a kernel has read its configuration and built its routes.
type Booted struct {
	Propagator
	locatorAccessor
	// Kernel is "web" or "cli".
	Kernel string
	// Routes is the number of registered routes or commands.
	Routes int
}

//--------------------

func NewBooted(locatorAccessorObj locatorAccessor, kernel string, routes int) *Booted {
	return &Booted{
		locatorAccessor: locatorAccessorObj,
		Kernel:          kernel,
		Routes:          routes,
	}
}
