// Command kiosk is the terminal front-end of the billboard: a chat session
// for visitors and a live table of stored preferences for operators.
package main

func main() {
	Execute()
}
