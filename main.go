package main

import (
	"log"

	"event-booking/cmd"
	_ "event-booking/migrations"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
