package main

import "jobtracker/internal/app"

func main() {
	app.Main()
}
