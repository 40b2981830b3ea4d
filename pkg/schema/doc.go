// Package schema validates and parses tour definition documents.
//
// Tours are authored as YAML or JSON. Before a document is decoded into a
// domain.Tour it is checked against the embedded JSON Schema (tour.schema.json),
// so authors get every problem at once with the location of each offending value:
//
//	tour, err := schema.ParseFile("tours/welcome.yaml")
//	if err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
//
// Schema failures wrap domain.ErrInvalidTour; a document without steps wraps
// domain.ErrEmptyTour.
package schema
