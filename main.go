package main

import "workhub/internal/app"

// @title WorkHub API
// @version 1.0
// @description Org task workflow, scoring and offboarding service.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
