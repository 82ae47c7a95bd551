// Command libex browses a book catalog from the terminal.
package main

func main() {
	Execute()
}
