// Command exprctl inspects, verifies and converts expression snapshot files.
package main

func main() {
	execute()
}
