/*
Package dsl provides a fluent builder for constructing tours in Go code.

It is an alternative to YAML or JSON tour files, useful for tours generated
at runtime and for tests.

Example usage:

	tour, err := dsl.New("welcome").
		Name("Welcome").
		Step("#header").Title("Header").Content("This is the header.").Bottom().
		Step("#sidebar").Title("Sidebar").Content("Navigate from here.").
		Build()
	if err != nil {
		return err
	}
	widget.Init(ctx, tourflow.Options{Tour: tour})
*/
package dsl
