package event

// Terminated is dispatched when a kernel stops. Listeners may append errors they hit
// while releasing resources.
type Terminated struct {
	Propagator
	locatorAccessor
	Kernel string
	Errors *[]error
}

//--------------------

func NewTerminated(locatorAccessorObj locatorAccessor, kernel string, terminationErrors *[]error) *Terminated {
	return &Terminated{
		locatorAccessor: locatorAccessorObj,
		Kernel:          kernel,
		Errors:          terminationErrors,
	}
}
