package main

import (
	"log"

	"github.com/tom-montgomery/esri2wkt/cmd"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err.Error())
	}
}
