// Command flagctl inspects and manipulates a flagkit store persisted to a
// directory on disk, running one subcommand per invocation against a
// FileBackend-backed Store.
package main

func main() {
	execute()
}
