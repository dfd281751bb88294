// Command libcrypt runs the schemes of this module end to end.
package main

func main() {
	Execute()
}
