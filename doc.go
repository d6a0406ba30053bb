/* Package logo is an embeddable Logo interpreter engine.

The engine is built for small fixed memory: every word and list lives in one
byte arena managed by a mark/sweep collector, values are 32-bit tagged
handles, and procedure activations share fixed-capacity frame, binding and
expression arenas. Nothing grows past its configured size; exhaustion is a
reported Logo error, not a host allocation.

An Interp is one self-contained interpreter. Programs reach the outside
world only through the Console and Devices interfaces, so the same engine
runs against a terminal, a test buffer, or whatever an embedder wires up:

	in := logo.New(
		logo.WithConsole(myConsole),
		logo.WithArenaSize(64 << 10),
	)
	err := in.Run(ctx)

Lines fed to EvalLine run immediately, except while a TO ... END definition
is open. Control flow inside the engine travels as Result values -- stop,
output, throw, goto and errors are all ordinary returns, never host panics.
Tail calls restart their frame in place, so deep Logo recursion runs in
constant host and frame stack space.

Procedure bodies normally run through a tree walker over the stored list
structure. WithBytecode(true) switches bodies to a small compiler and stack
machine with the same observable behavior; bodies the compiler cannot
express fall back to the walker.

Primitives are registered per interpreter, and the core set (PRINT, MAKE,
REPEAT, IF, CATCH, arithmetic, words and lists, workspace printout) is
installed by New. Embedders add their own with Register.
*/
package logo
