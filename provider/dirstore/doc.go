/*
Package dirstore implements the storage provider over a plain directory: one
JSON file per collection plus a YAML manifest registering the known labels.

The layout is human-inspectable and diff-friendly, which makes this provider
a good fit for dotfile-style application data and for debugging the contents
of a namespace with ordinary shell tools. Every mutation rewrites the
affected collection file; Save is a no-op.
*/
package dirstore
