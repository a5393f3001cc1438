// Package internal contains the core implementation packages for plate.
//
// These packages follow Go's internal package convention: they are not
// importable by other modules and back the plate CLI in cmd.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - document: Node tree, paths, points and tree operations
//   - editor: Plugin descriptors, composition (withPlate/withSlate),
//     core plugins, normalization and history
//   - presets: Ready-made element and mark plugins with HTML rules
//   - normalizers: normalizeTypes rules enforcing node types by path
//   - deserialize: HTML, plain text and fragment deserialization
//   - render: HTML rendering through plugin templ components
//   - registry: Named components referenced from manifests
//   - config: CLI settings (viper) and editor manifests (YAML)
//   - errors: Typed errors with codes, plugin keys and paths
//   - logging: Structured logging on log/slog
//   - watcher: Debounced manifest watching on fsnotify
//   - mockdata: Sample documents generated from plugin HTML rules
//   - validation: URL checks for link and image nodes
//   - version: Build information
//   - testutils: Fixtures shared by package tests
//
// # Inter-Package Communication
//
//   - config builds editor.Config and editor.SlateOptions from a manifest,
//     resolving component names through registry and presets by name
//   - editor composes the plugin list; deserialize and render read it
//   - watcher reports manifest changes; cmd recomposes on each batch
//
// For detailed documentation, see the individual package documentation.
package internal
