// Command streamverse is the command-line client for a streamversed server.
package main

func main() {
	Execute()
}
