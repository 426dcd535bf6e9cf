package main

import "github.com/lectern-app/lectern-api/cmd"

// @title           Lectern API
// @version         1.0.0
// @description     Transcript assembly, learning content generation, and progress tracking API
// @contact.name    API Support
// @contact.url     https://github.com/lectern-app/lectern-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token identifying the calling learner
func main() {
	cmd.Execute()
}
