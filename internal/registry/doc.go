// Package registry maps module type names used in run scripts (for example
// "EvalOnes") to the Go code that builds them.
//
// A Registry is populated by Plugin.Register calls before any controller is
// created and is then handed to the controller. Nothing is registered
// globally.
package registry
