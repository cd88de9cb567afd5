package main

import "github.com/saadjs/unitconv/cmd/unitconv"

func main() {
	unitconv.Execute()
}
