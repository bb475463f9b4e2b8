// Command billctl inspects bills and payments from the terminal, using the
// same configuration and storage as the server.
package main

func main() {
	Execute()
}
