package assembly

import "errors"

// ErrMissingConnection reports wiring that references a pin a sub-block
// did not produce, such as an unknown mux input name.
var ErrMissingConnection = errors.New("assembly: missing connection")
