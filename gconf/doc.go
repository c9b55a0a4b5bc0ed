/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object under its package name.
The configuration is created from the genesis file and can later be patched
by the configuration owner.
*/
package gconf
