package component

// Lifecycle holds the bound lifecycle operations of one component.
// Nil entries mean the component does not define that operation.
type Lifecycle struct {
	Init                 func() error
	ExternalSources      func()
	Main                 func()
	ExternalDestinations func()
}

// Empty reports whether no operation is defined.
func (l Lifecycle) Empty() bool {
	return l.Init == nil && l.ExternalSources == nil && l.Main == nil && l.ExternalDestinations == nil
}

// BindLifecycle resolves the lifecycle methods defined on ptr.
//
// Init may be declared as Init() error or Init(); the latter is adapted to
// always succeed.
func BindLifecycle(ptr any) Lifecycle {
	var lc Lifecycle

	switch c := ptr.(type) {
	case interface{ Init() error }:
		lc.Init = c.Init
	case interface{ Init() }:
		lc.Init = func() error {
			c.Init()
			return nil
		}
	}
	if c, ok := ptr.(interface{ ExternalSources() }); ok {
		lc.ExternalSources = c.ExternalSources
	}
	if c, ok := ptr.(interface{ Main() }); ok {
		lc.Main = c.Main
	}
	if c, ok := ptr.(interface{ ExternalDestinations() }); ok {
		lc.ExternalDestinations = c.ExternalDestinations
	}

	return lc
}
