// Package engine is the configuration loading layer of the application. It
// discovers workspace files, decodes their service and setting blocks, and
// assembles the result into a Workspace: services wired by extends, plus one
// pending registration per declared directive, ready to feed a registry.
package engine
