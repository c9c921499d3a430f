// SPDX-License-Identifier: MPL-2.0

package compiler

// Toolchain is the external compiler service that performs analysis and
// code generation. Implementations are opaque to the driver: it only
// relies on the contract below.
type Toolchain interface {
	// TemplateSchema returns the script-template schema source that plugin
	// scripts are checked against. The same bytes are handed to every
	// compilation configuration.
	TemplateSchema() []byte

	// AnalyzeAndGenerate runs the combined analysis and code generation
	// phase against the environment's configuration.
	//
	// The three outcomes are:
	//   - (state, nil): analysis and generation succeeded; the environment
	//     holds the resolved source units and state holds the artifacts.
	//   - (nil, nil): analysis failed; error diagnostics describing why are
	//     in the configuration's sink.
	//   - (nil, err): the toolchain itself broke (an internal error rather
	//     than a problem with the script).
	AnalyzeAndGenerate(env *Environment) (*GenerationState, error)
}
