// Package procedure is the host's procedure database. Plugins register a
// Procedure describing their menu placement and typed parameters; front ends
// discover procedures through the registry, bind string arguments to typed
// values and run them.
//
// Argument values cross the front-end boundary as strings, the same way a
// batch invocation passes them on the command line. Binding converts them
// according to each ParamDef and fills in defaults for anything missing.
package procedure
