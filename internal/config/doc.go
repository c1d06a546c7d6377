// Package config defines the format-agnostic model that declaration files
// and environment files are loaded into, together with the Loader interface
// for the concrete file formats.
//
// The `config.Model` is what the registry and the app consume. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
